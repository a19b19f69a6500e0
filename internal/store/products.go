package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ProductImage is one entry of a product's gallery. The first entry is the
// main/cover image; imageUrl and imageKey always mirror it.
type ProductImage struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type Product struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Description *string        `json:"description"`
	Category    string         `json:"category"`
	SubCategory *string        `json:"subCategory"`
	ImageURL    *string        `json:"imageUrl"`
	ImageKey    *string        `json:"imageKey"`
	Images      []ProductImage `json:"images"`
	ViewCount   int64          `json:"viewCount"`
	IsActive    int            `json:"isActive"`
	IsFeatured  int            `json:"isFeatured"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ProductFilter narrows List results. Empty fields are skipped; conditions
// are AND-composed.
type ProductFilter struct {
	Category    string
	SubCategory string
	ActiveOnly  bool
}

type ProductsStore struct {
	db *sql.DB
}

const productColumns = `id, title, description, category, subCategory, imageUrl, imageKey, images, viewCount, isActive, isFeatured, createdAt, updatedAt`

func scanProduct(row interface{ Scan(...any) error }) (*Product, error) {
	var p Product
	var imagesJSON []byte
	err := row.Scan(
		&p.ID, &p.Title, &p.Description, &p.Category, &p.SubCategory,
		&p.ImageURL, &p.ImageKey, &imagesJSON, &p.ViewCount,
		&p.IsActive, &p.IsFeatured, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(imagesJSON) > 0 {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return nil, fmt.Errorf("decode images column: %w", err)
		}
	}
	return &p, nil
}

func marshalImages(images []ProductImage) (any, error) {
	if len(images) == 0 {
		return nil, nil
	}
	return json.Marshal(images)
}

// Create inserts the product and re-reads the newest row so generated
// defaults (timestamps, flags) come back populated. A nil receiver DB
// returns nil without error.
func (s *ProductsStore) Create(ctx context.Context, product *Product) (*Product, error) {
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	imagesVal, err := marshalImages(product.Images)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO products (title, description, category, subCategory, imageUrl, imageKey, images, isFeatured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		product.Title, product.Description, product.Category, product.SubCategory,
		product.ImageURL, product.ImageKey, imagesVal, product.IsFeatured,
	)
	if err != nil {
		return nil, fmt.Errorf("insert product: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products ORDER BY id DESC LIMIT 1`)
	return scanProduct(row)
}

func (s *ProductsStore) List(ctx context.Context, filter ProductFilter) ([]Product, error) {
	if s.db == nil {
		return []Product{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products`
	conditions := []string{}
	args := []any{}

	if filter.ActiveOnly {
		conditions = append(conditions, "isActive = 1")
	}
	if filter.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.SubCategory != "" {
		conditions = append(conditions, "subCategory = ?")
		args = append(args, filter.SubCategory)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY createdAt DESC"

	return s.queryProducts(ctx, query, args...)
}

func (s *ProductsStore) Featured(ctx context.Context, limit int) ([]Product, error) {
	if s.db == nil {
		return []Product{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		SELECT ` + productColumns + ` FROM products
		WHERE isActive = 1 AND isFeatured = 1
		ORDER BY createdAt DESC
		LIMIT ?
	`
	return s.queryProducts(ctx, query, limit)
}

func (s *ProductsStore) GetByID(ctx context.Context, id int64) (*Product, error) {
	if s.db == nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	product, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return product, err
}

// Update applies a partial update built from the given field map, then
// re-reads and returns the fresh row. Unknown keys are rejected.
func (s *ProductsStore) Update(ctx context.Context, id int64, fields map[string]any) (*Product, error) {
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := "UPDATE products SET "
	args := []any{}

	for key, value := range fields {
		switch key {
		case "title", "description", "category", "subCategory", "imageUrl", "imageKey", "isActive", "isFeatured":
			query += key + " = ?, "
			args = append(args, value)
		case "images":
			images, _ := value.([]ProductImage)
			imagesVal, err := marshalImages(images)
			if err != nil {
				return nil, err
			}
			query += "images = ?, "
			args = append(args, imagesVal)
		default:
			return nil, fmt.Errorf("unsupported field: %s", key)
		}
	}
	if len(args) == 0 {
		return s.GetByID(ctx, id)
	}

	query = query[:len(query)-2] + " WHERE id = ?"
	args = append(args, id)

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *ProductsStore) Delete(ctx context.Context, id int64) (bool, error) {
	if s.db == nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// ToggleFeatured flips the flag in a single statement so two concurrent
// toggles cannot lose an update, then returns the fresh row.
func (s *ProductsStore) ToggleFeatured(ctx context.Context, id int64) (*Product, error) {
	return s.toggleFlag(ctx, id, "isFeatured")
}

func (s *ProductsStore) ToggleActive(ctx context.Context, id int64) (*Product, error) {
	return s.toggleFlag(ctx, id, "isActive")
}

func (s *ProductsStore) toggleFlag(ctx context.Context, id int64, column string) (*Product, error) {
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := fmt.Sprintf(`UPDATE products SET %s = 1 - %s WHERE id = ?`, column, column)
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, ErrNotFound
	}
	return s.GetByID(ctx, id)
}

// IncrementViewCount is a relative +1 at the storage layer, race-safe under
// concurrent viewers.
func (s *ProductsStore) IncrementViewCount(ctx context.Context, id int64) error {
	if s.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	_, err := s.db.ExecContext(ctx,
		`UPDATE products SET viewCount = viewCount + 1 WHERE id = ?`, id)
	return err
}

func (s *ProductsStore) TopViewed(ctx context.Context, limit int) ([]Product, error) {
	if s.db == nil {
		return []Product{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products ORDER BY viewCount DESC LIMIT ?`
	return s.queryProducts(ctx, query, limit)
}

func (s *ProductsStore) TotalViewCount(ctx context.Context) (int64, error) {
	if s.db == nil {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var total sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT SUM(viewCount) FROM products`).Scan(&total)
	if err != nil {
		return 0, err
	}
	return total.Int64, nil
}

func (s *ProductsStore) queryProducts(ctx context.Context, query string, args ...any) ([]Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
