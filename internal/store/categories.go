package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Category is an admin-managed subcategory under one of the two fixed top
// level categories. Its slug is the stable value products reference in
// their subCategory column.
type Category struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Slug           string    `json:"slug"`
	ParentCategory string    `json:"parentCategory"`
	IsActive       int       `json:"isActive"`
	SortOrder      int       `json:"sortOrder"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

type CategoryFilter struct {
	ParentCategory string
	ActiveOnly     bool
}

type CategoriesStore struct {
	db *sql.DB
}

const categoryColumns = `id, name, slug, parentCategory, isActive, sortOrder, createdAt, updatedAt`

// DefaultCategories is the seed set inserted once at startup. The table is
// the single source of truth afterwards; listings never merge a second,
// hardcoded source.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Buzdolabı", Slug: "buzdolabi", ParentCategory: "beyaz_esya", SortOrder: 0},
		{Name: "Çamaşır Makinesi", Slug: "camasir_makinesi", ParentCategory: "beyaz_esya", SortOrder: 1},
		{Name: "Bulaşık Makinesi", Slug: "bulasik_makinesi", ParentCategory: "beyaz_esya", SortOrder: 2},
		{Name: "Fırın/Ocak", Slug: "firin_ocak", ParentCategory: "beyaz_esya", SortOrder: 3},
		{Name: "Derin Dondurucu", Slug: "derin_dondurucu", ParentCategory: "beyaz_esya", SortOrder: 4},
		{Name: "Klima", Slug: "klima", ParentCategory: "beyaz_esya", SortOrder: 5},
		{Name: "Koltuk Takımı", Slug: "koltuk_takimi", ParentCategory: "mobilya", SortOrder: 0},
		{Name: "Köşe Koltuk", Slug: "kose_koltuk", ParentCategory: "mobilya", SortOrder: 1},
		{Name: "Yatak/Baza", Slug: "yatak_baza", ParentCategory: "mobilya", SortOrder: 2},
		{Name: "Gardırop", Slug: "gardrop", ParentCategory: "mobilya", SortOrder: 3},
		{Name: "Yemek Masası", Slug: "yemek_masasi", ParentCategory: "mobilya", SortOrder: 4},
		{Name: "TV Ünitesi", Slug: "tv_unitesi", ParentCategory: "mobilya", SortOrder: 5},
		{Name: "Sehpa", Slug: "sehpa", ParentCategory: "mobilya", SortOrder: 6},
	}
}

func scanCategory(row interface{ Scan(...any) error }) (*Category, error) {
	var c Category
	err := row.Scan(&c.ID, &c.Name, &c.Slug, &c.ParentCategory,
		&c.IsActive, &c.SortOrder, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// isDuplicateKey reports a MySQL unique constraint violation (error 1062).
func isDuplicateKey(err error) bool {
	if mysqlErr, ok := err.(*mysql.MySQLError); ok {
		return mysqlErr.Number == 1062
	}
	return false
}

func (s *CategoriesStore) Create(ctx context.Context, category *Category) (*Category, error) {
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO categories (name, slug, parentCategory, sortOrder)
		VALUES (?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		category.Name, category.Slug, category.ParentCategory, category.SortOrder)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert category: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories ORDER BY id DESC LIMIT 1`)
	return scanCategory(row)
}

func (s *CategoriesStore) List(ctx context.Context, filter CategoryFilter) ([]Category, error) {
	if s.db == nil {
		return []Category{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + categoryColumns + ` FROM categories`
	conditions := []string{}
	args := []any{}

	if filter.ActiveOnly {
		conditions = append(conditions, "isActive = 1")
	}
	if filter.ParentCategory != "" {
		conditions = append(conditions, "parentCategory = ?")
		args = append(args, filter.ParentCategory)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY sortOrder ASC, name ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, *c)
	}
	return categories, rows.Err()
}

func (s *CategoriesStore) GetByID(ctx context.Context, id int64) (*Category, error) {
	if s.db == nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, id)
	category, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return category, err
}

func (s *CategoriesStore) GetBySlug(ctx context.Context, slug string) (*Category, error) {
	if s.db == nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, slug)
	category, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return category, err
}

func (s *CategoriesStore) Update(ctx context.Context, id int64, fields map[string]any) (*Category, error) {
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := "UPDATE categories SET "
	args := []any{}

	for key, value := range fields {
		switch key {
		case "name", "slug", "isActive", "sortOrder":
			query += key + " = ?, "
			args = append(args, value)
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
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	return s.GetByID(ctx, id)
}

// Delete removes the category row only. Products referencing its slug keep
// the dangling subCategory string; labels fall back to the raw value.
func (s *CategoriesStore) Delete(ctx context.Context, id int64) (bool, error) {
	if s.db == nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// SeedDefaults inserts the default subcategories, skipping any slug already
// present. Safe to run on every startup.
func (s *CategoriesStore) SeedDefaults(ctx context.Context, defaults []Category) error {
	if s.db == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT IGNORE INTO categories (name, slug, parentCategory, sortOrder)
		VALUES (?, ?, ?, ?)
	`
	for _, c := range defaults {
		if _, err := s.db.ExecContext(ctx, query, c.Name, c.Slug, c.ParentCategory, c.SortOrder); err != nil {
			return fmt.Errorf("seed category %s: %w", c.Slug, err)
		}
	}
	return nil
}
