package store

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

// Storage bundles the per-entity stores behind small interfaces so handlers
// can be tested against fakes. Every store tolerates a nil *sql.DB: reads
// come back empty and writes report nil/false instead of failing, so the
// site keeps serving when no database is attached.
type Storage struct {
	Products interface {
		Create(context.Context, *Product) (*Product, error)
		List(context.Context, ProductFilter) ([]Product, error)
		Featured(context.Context, int) ([]Product, error)
		GetByID(context.Context, int64) (*Product, error)
		Update(context.Context, int64, map[string]any) (*Product, error)
		Delete(context.Context, int64) (bool, error)
		ToggleFeatured(context.Context, int64) (*Product, error)
		ToggleActive(context.Context, int64) (*Product, error)
		IncrementViewCount(context.Context, int64) error
		TopViewed(context.Context, int) ([]Product, error)
		TotalViewCount(context.Context) (int64, error)
	}
	Categories interface {
		Create(context.Context, *Category) (*Category, error)
		List(context.Context, CategoryFilter) ([]Category, error)
		GetByID(context.Context, int64) (*Category, error)
		GetBySlug(context.Context, string) (*Category, error)
		Update(context.Context, int64, map[string]any) (*Category, error)
		Delete(context.Context, int64) (bool, error)
		SeedDefaults(context.Context, []Category) error
	}
	Blog interface {
		Create(context.Context, *BlogPost) (*BlogPost, error)
		List(context.Context, bool) ([]BlogPost, error)
		GetByID(context.Context, int64) (*BlogPost, error)
		GetBySlug(context.Context, string) (*BlogPost, error)
		Update(context.Context, int64, map[string]any) (*BlogPost, error)
		Delete(context.Context, int64) (bool, error)
	}
	Users interface {
		Upsert(context.Context, *User) error
		GetByOpenID(context.Context, string) (*User, error)
	}
}

func NewStorage(db *sql.DB) Storage {
	return Storage{
		Products:   &ProductsStore{db},
		Categories: &CategoriesStore{db},
		Blog:       &BlogStore{db},
		Users:      &UsersStore{db},
	}
}
