package main

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"spotcu/internal/store"

	"github.com/go-chi/chi/v5"
)

type imageUpload struct {
	Base64   string `json:"base64" validate:"required"`
	MimeType string `json:"mimeType" validate:"required"`
}

// deriveMainImage is the single place the "first array element is the
// main image" convention lives. Every mutation of the images array funnels
// through it.
func deriveMainImage(images []store.ProductImage) *store.ProductImage {
	if len(images) == 0 {
		return nil
	}
	return &images[0]
}

// capImages truncates the gallery to max entries; the first ones win.
func capImages(images []store.ProductImage, max int) []store.ProductImage {
	if len(images) > max {
		return images[:max]
	}
	return images
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// storeUploadedImages decodes and persists base64 uploads in input order;
// that order defines the gallery order.
func (app *application) storeUploadedImages(images []imageUpload, prefix string) ([]store.ProductImage, error) {
	stored := []store.ProductImage{}
	for _, img := range images {
		data, err := base64.StdEncoding.DecodeString(img.Base64)
		if err != nil {
			return nil, fmt.Errorf("decode image: %w", err)
		}
		obj, err := app.uploads.Put(data, img.MimeType, prefix)
		if err != nil {
			return nil, fmt.Errorf("store image: %w", err)
		}
		stored = append(stored, store.ProductImage{URL: obj.URL, Key: obj.Key})
	}
	return stored, nil
}

func (app *application) readProductID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "productID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid product ID: %s", idStr)
	}
	return id, nil
}

func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	filter := store.ProductFilter{
		Category:    r.URL.Query().Get("category"),
		SubCategory: r.URL.Query().Get("subCategory"),
		ActiveOnly:  true,
	}

	products, err := app.store.Products.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, products)
}

func (app *application) featuredProductsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 4
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	products, err := app.store.Products.Featured(r.Context(), limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, products)
}

func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readProductID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := app.store.Products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Ürün bulunamadı"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, product)
}

// incrementViewHandler is fire-and-forget: a failed increment is logged and
// the caller still gets success.
func (app *application) incrementViewHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readProductID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := app.store.Products.IncrementViewCount(r.Context(), id); err != nil {
		app.logger.Warnw("failed to increment view count", "product_id", id, "error", err)
	}

	app.jsonResponse(w, http.StatusOK, map[string]bool{"success": true})
}

func (app *application) adminListProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := app.store.Products.List(r.Context(), store.ProductFilter{})
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, products)
}

func (app *application) topViewedProductsHandler(w http.ResponseWriter, r *http.Request) {
	limit := 5
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	products, err := app.store.Products.TopViewed(r.Context(), limit)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, products)
}

func (app *application) totalViewsHandler(w http.ResponseWriter, r *http.Request) {
	total, err := app.store.Products.TotalViewCount(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]int64{"total": total})
}

type CreateProductPayload struct {
	Title       string `json:"title" validate:"required,min=1"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required,oneof=mobilya beyaz_esya"`
	SubCategory string `json:"subCategory"`
	// Legacy single image support
	ImageBase64   string        `json:"imageBase64"`
	ImageMimeType string        `json:"imageMimeType"`
	Images        []imageUpload `json:"images" validate:"max=5,dive"`
	IsFeatured    bool          `json:"isFeatured"`
}

func (app *application) createProductHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var images []store.ProductImage
	if len(payload.Images) > 0 {
		stored, err := app.storeUploadedImages(payload.Images, "products")
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		images = stored
	} else if payload.ImageBase64 != "" && payload.ImageMimeType != "" {
		stored, err := app.storeUploadedImages([]imageUpload{{Base64: payload.ImageBase64, MimeType: payload.ImageMimeType}}, "products")
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		images = stored
	}

	product := &store.Product{
		Title:       payload.Title,
		Description: nilIfEmpty(payload.Description),
		Category:    payload.Category,
		SubCategory: nilIfEmpty(payload.SubCategory),
		Images:      images,
		IsFeatured:  boolToInt(payload.IsFeatured),
	}
	if main := deriveMainImage(images); main != nil {
		product.ImageURL = &main.URL
		product.ImageKey = &main.Key
	}

	created, err := app.store.Products.Create(r.Context(), product)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	// Best-effort automation hook; a dead endpoint never fails the create
	if created != nil {
		go app.webhook.Send("product.created", map[string]any{
			"id":          created.ID,
			"title":       created.Title,
			"description": created.Description,
			"category":    created.Category,
			"imageUrl":    created.ImageURL,
			"images":      created.Images,
		})
	}

	app.jsonResponse(w, http.StatusCreated, created)
}

type UpdateProductPayload struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	Description *string `json:"description"`
	Category    *string `json:"category" validate:"omitempty,oneof=mobilya beyaz_esya"`
	SubCategory *string `json:"subCategory"`
	// Legacy single image support
	ImageBase64   string        `json:"imageBase64"`
	ImageMimeType string        `json:"imageMimeType"`
	Images        []imageUpload `json:"images" validate:"max=5,dive"`
	// Prior images to retain; anything omitted drops out of the gallery
	ExistingImages   []store.ProductImage `json:"existingImages"`
	ClearDescription bool                 `json:"clearDescription"`
}

func (app *application) updateProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readProductID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateProductPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	fields := map[string]any{}
	if payload.Title != nil {
		fields["title"] = *payload.Title
	}
	if payload.Description != nil {
		fields["description"] = *payload.Description
	}
	if payload.Category != nil {
		fields["category"] = *payload.Category
	}
	if payload.SubCategory != nil {
		fields["subCategory"] = *payload.SubCategory
	}
	if payload.ClearDescription {
		fields["description"] = nil
	}

	images := payload.ExistingImages

	if len(payload.Images) > 0 {
		stored, err := app.storeUploadedImages(payload.Images, "products")
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		images = append(images, stored...)
	}

	// Legacy single image path replaces the primary photo, deleting the
	// old file first.
	if payload.ImageBase64 != "" && payload.ImageMimeType != "" {
		existing, err := app.store.Products.GetByID(r.Context(), id)
		if err == nil && existing.ImageKey != nil {
			app.uploads.Delete(*existing.ImageKey)
		}

		stored, err := app.storeUploadedImages([]imageUpload{{Base64: payload.ImageBase64, MimeType: payload.ImageMimeType}}, "products")
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		fields["imageUrl"] = stored[0].URL
		fields["imageKey"] = stored[0].Key

		already := false
		for _, img := range images {
			if img.Key == stored[0].Key {
				already = true
				break
			}
		}
		if !already {
			images = append(stored, images...)
		}
	}

	if len(images) > 0 {
		images = capImages(images, 5)
		fields["images"] = images
		main := deriveMainImage(images)
		fields["imageUrl"] = main.URL
		fields["imageKey"] = main.Key
	}

	updated, err := app.store.Products.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Ürün bulunamadı"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, updated)
}

// deleteProductHandler removes every referenced file, then the row. File
// cleanup is best-effort; the row deletion is the dominant intent.
func (app *application) deleteProductHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readProductID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := app.store.Products.GetByID(r.Context(), id)
	if err == nil && product != nil {
		if len(product.Images) > 0 {
			for _, img := range product.Images {
				if img.Key != "" {
					app.uploads.Delete(img.Key)
				}
			}
		} else if product.ImageKey != nil {
			app.uploads.Delete(*product.ImageKey)
		}
	}

	deleted, err := app.store.Products.Delete(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]bool{"success": deleted})
}

type DeleteProductImagePayload struct {
	ImageKey string `json:"imageKey" validate:"required"`
}

func (app *application) deleteProductImageHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readProductID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload DeleteProductImagePayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := app.store.Products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Ürün bulunamadı"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.uploads.Delete(payload.ImageKey)

	images := []store.ProductImage{}
	for _, img := range product.Images {
		if img.Key != payload.ImageKey {
			images = append(images, img)
		}
	}

	fields := map[string]any{"images": images}
	if main := deriveMainImage(images); main != nil {
		fields["imageUrl"] = main.URL
		fields["imageKey"] = main.Key
	} else {
		fields["imageUrl"] = nil
		fields["imageKey"] = nil
	}

	updated, err := app.store.Products.Update(r.Context(), id, fields)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, updated)
}

func (app *application) toggleProductFeaturedHandler(w http.ResponseWriter, r *http.Request) {
	app.toggleProductFlag(w, r, app.store.Products.ToggleFeatured)
}

func (app *application) toggleProductActiveHandler(w http.ResponseWriter, r *http.Request) {
	app.toggleProductFlag(w, r, app.store.Products.ToggleActive)
}

func (app *application) toggleProductFlag(w http.ResponseWriter, r *http.Request, toggle func(context.Context, int64) (*store.Product, error)) {
	id, err := app.readProductID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	product, err := toggle(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Ürün bulunamadı"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, product)
}
