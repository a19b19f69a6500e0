package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// BlogPost is either admin-authored (isManual=1) or created by the n8n
// automation webhook (isManual=0, auto-published).
type BlogPost struct {
	ID            int64     `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Content       string    `json:"content"`
	Excerpt       *string   `json:"excerpt"`
	CoverImage    *string   `json:"coverImage"`
	CoverImageKey *string   `json:"coverImageKey"`
	IsPublished   int       `json:"isPublished"`
	IsManual      int       `json:"isManual"`
	ProductID     *int64    `json:"productId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type BlogStore struct {
	db *sql.DB
}

const blogColumns = `id, title, slug, content, excerpt, coverImage, coverImageKey, isPublished, isManual, productId, createdAt, updatedAt`

func scanBlogPost(row interface{ Scan(...any) error }) (*BlogPost, error) {
	var p BlogPost
	err := row.Scan(&p.ID, &p.Title, &p.Slug, &p.Content, &p.Excerpt,
		&p.CoverImage, &p.CoverImageKey, &p.IsPublished, &p.IsManual,
		&p.ProductID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *BlogStore) Create(ctx context.Context, post *BlogPost) (*BlogPost, error) {
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `
		INSERT INTO blog_posts (title, slug, content, excerpt, coverImage, coverImageKey, isPublished, isManual, productId)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		post.Title, post.Slug, post.Content, post.Excerpt,
		post.CoverImage, post.CoverImageKey, post.IsPublished, post.IsManual, post.ProductID)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("insert blog post: %w", err)
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blog_posts ORDER BY id DESC LIMIT 1`)
	return scanBlogPost(row)
}

func (s *BlogStore) List(ctx context.Context, publishedOnly bool) ([]BlogPost, error) {
	if s.db == nil {
		return []BlogPost{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := `SELECT ` + blogColumns + ` FROM blog_posts`
	if publishedOnly {
		query += ` WHERE isPublished = 1`
	}
	query += ` ORDER BY createdAt DESC`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := []BlogPost{}
	for rows.Next() {
		p, err := scanBlogPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

func (s *BlogStore) GetByID(ctx context.Context, id int64) (*BlogPost, error) {
	if s.db == nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blog_posts WHERE id = ?`, id)
	post, err := scanBlogPost(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return post, err
}

// GetBySlug does not filter on isPublished: a draft's slug stays fetchable
// as an unlisted preview.
func (s *BlogStore) GetBySlug(ctx context.Context, slug string) (*BlogPost, error) {
	if s.db == nil {
		return nil, ErrNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+blogColumns+` FROM blog_posts WHERE slug = ?`, slug)
	post, err := scanBlogPost(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return post, err
}

func (s *BlogStore) Update(ctx context.Context, id int64, fields map[string]any) (*BlogPost, error) {
	if s.db == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	query := "UPDATE blog_posts SET "
	args := []any{}

	for key, value := range fields {
		switch key {
		case "title", "content", "excerpt", "coverImage", "coverImageKey", "isPublished":
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
		return nil, fmt.Errorf("update blog post: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *BlogStore) Delete(ctx context.Context, id int64) (bool, error) {
	if s.db == nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM blog_posts WHERE id = ?`, id)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
