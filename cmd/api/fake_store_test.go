package main

import (
	"context"
	"net/http"
	"sort"
	"testing"

	"spotcu/internal/store"
)

// In-memory stand-ins for the MySQL-backed stores, so the handler tests can
// drive the data-bearing flows (galleries, toggles, filters) end to end
// through the router.

type fakeProductsStore struct {
	nextID   int64
	products map[int64]store.Product
}

func newFakeProductsStore() *fakeProductsStore {
	return &fakeProductsStore{products: map[int64]store.Product{}}
}

func (f *fakeProductsStore) Create(_ context.Context, product *store.Product) (*store.Product, error) {
	f.nextID++
	p := *product
	p.ID = f.nextID
	// Column default: new products start active
	p.IsActive = 1
	f.products[p.ID] = p
	out := p
	return &out, nil
}

func (f *fakeProductsStore) List(_ context.Context, filter store.ProductFilter) ([]store.Product, error) {
	products := []store.Product{}
	for _, p := range f.products {
		if filter.ActiveOnly && p.IsActive != 1 {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.SubCategory != "" && (p.SubCategory == nil || *p.SubCategory != filter.SubCategory) {
			continue
		}
		products = append(products, p)
	}
	// Newest first, as the real store orders by createdAt DESC
	sort.Slice(products, func(i, j int) bool { return products[i].ID > products[j].ID })
	return products, nil
}

func (f *fakeProductsStore) Featured(_ context.Context, limit int) ([]store.Product, error) {
	products := []store.Product{}
	for _, p := range f.products {
		if p.IsActive == 1 && p.IsFeatured == 1 {
			products = append(products, p)
		}
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ID > products[j].ID })
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (f *fakeProductsStore) GetByID(_ context.Context, id int64) (*store.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := p
	return &out, nil
}

func (f *fakeProductsStore) Update(_ context.Context, id int64, fields map[string]any) (*store.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			p.Title = value.(string)
		case "description":
			p.Description = nullableString(value)
		case "category":
			p.Category = value.(string)
		case "subCategory":
			p.SubCategory = nullableString(value)
		case "imageUrl":
			p.ImageURL = nullableString(value)
		case "imageKey":
			p.ImageKey = nullableString(value)
		case "images":
			p.Images = value.([]store.ProductImage)
		case "isActive":
			p.IsActive = value.(int)
		case "isFeatured":
			p.IsFeatured = value.(int)
		}
	}
	f.products[id] = p
	out := p
	return &out, nil
}

func (f *fakeProductsStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.products[id]; !ok {
		return false, nil
	}
	delete(f.products, id)
	return true, nil
}

func (f *fakeProductsStore) ToggleFeatured(_ context.Context, id int64) (*store.Product, error) {
	return f.toggle(id, func(p *store.Product) { p.IsFeatured = 1 - p.IsFeatured })
}

func (f *fakeProductsStore) ToggleActive(_ context.Context, id int64) (*store.Product, error) {
	return f.toggle(id, func(p *store.Product) { p.IsActive = 1 - p.IsActive })
}

func (f *fakeProductsStore) toggle(id int64, flip func(*store.Product)) (*store.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	flip(&p)
	f.products[id] = p
	out := p
	return &out, nil
}

func (f *fakeProductsStore) IncrementViewCount(_ context.Context, id int64) error {
	if p, ok := f.products[id]; ok {
		p.ViewCount++
		f.products[id] = p
	}
	return nil
}

func (f *fakeProductsStore) TopViewed(_ context.Context, limit int) ([]store.Product, error) {
	products := []store.Product{}
	for _, p := range f.products {
		products = append(products, p)
	}
	sort.Slice(products, func(i, j int) bool { return products[i].ViewCount > products[j].ViewCount })
	if len(products) > limit {
		products = products[:limit]
	}
	return products, nil
}

func (f *fakeProductsStore) TotalViewCount(_ context.Context) (int64, error) {
	var total int64
	for _, p := range f.products {
		total += p.ViewCount
	}
	return total, nil
}

type fakeBlogStore struct {
	nextID int64
	posts  map[int64]store.BlogPost
}

func newFakeBlogStore() *fakeBlogStore {
	return &fakeBlogStore{posts: map[int64]store.BlogPost{}}
}

func (f *fakeBlogStore) Create(_ context.Context, post *store.BlogPost) (*store.BlogPost, error) {
	for _, existing := range f.posts {
		if existing.Slug == post.Slug {
			return nil, store.ErrConflict
		}
	}
	f.nextID++
	p := *post
	p.ID = f.nextID
	f.posts[p.ID] = p
	out := p
	return &out, nil
}

func (f *fakeBlogStore) List(_ context.Context, publishedOnly bool) ([]store.BlogPost, error) {
	posts := []store.BlogPost{}
	for _, p := range f.posts {
		if publishedOnly && p.IsPublished != 1 {
			continue
		}
		posts = append(posts, p)
	}
	sort.Slice(posts, func(i, j int) bool { return posts[i].ID > posts[j].ID })
	return posts, nil
}

func (f *fakeBlogStore) GetByID(_ context.Context, id int64) (*store.BlogPost, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	out := p
	return &out, nil
}

func (f *fakeBlogStore) GetBySlug(_ context.Context, slug string) (*store.BlogPost, error) {
	for _, p := range f.posts {
		if p.Slug == slug {
			out := p
			return &out, nil
		}
	}
	return nil, store.ErrNotFound
}

func (f *fakeBlogStore) Update(_ context.Context, id int64, fields map[string]any) (*store.BlogPost, error) {
	p, ok := f.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	for key, value := range fields {
		switch key {
		case "title":
			p.Title = value.(string)
		case "content":
			p.Content = value.(string)
		case "excerpt":
			p.Excerpt = nullableString(value)
		case "coverImage":
			p.CoverImage = nullableString(value)
		case "coverImageKey":
			p.CoverImageKey = nullableString(value)
		case "isPublished":
			p.IsPublished = value.(int)
		}
	}
	f.posts[id] = p
	out := p
	return &out, nil
}

func (f *fakeBlogStore) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.posts[id]; !ok {
		return false, nil
	}
	delete(f.posts, id)
	return true, nil
}

func nullableString(value any) *string {
	if value == nil {
		return nil
	}
	s := value.(string)
	return &s
}

// newFakeStoreApp wires an application whose products and blog stores are
// in-memory, returning the fakes so tests can seed rows directly.
func newFakeStoreApp(t *testing.T) (*application, http.Handler, *fakeProductsStore, *fakeBlogStore) {
	t.Helper()

	products := newFakeProductsStore()
	blog := newFakeBlogStore()

	storage := store.NewStorage(nil)
	storage.Products = products
	storage.Blog = blog

	app, mux := newTestAppWithStorage(t, storage)
	return app, mux, products, blog
}
