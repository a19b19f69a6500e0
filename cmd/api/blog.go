package main

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"spotcu/internal/store"

	"github.com/go-chi/chi/v5"
)

func (app *application) readBlogPostID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "postID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid blog post ID: %s", idStr)
	}
	return id, nil
}

func (app *application) listBlogPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := app.store.Blog.List(r.Context(), true)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, posts)
}

// getBlogPostBySlugHandler looks up by slug regardless of publish state;
// an unpublished post's slug works as an unlisted preview link.
func (app *application) getBlogPostBySlugHandler(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, err := app.store.Blog.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Blog yazısı bulunamadı"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, post)
}

func (app *application) adminListBlogPostsHandler(w http.ResponseWriter, r *http.Request) {
	posts, err := app.store.Blog.List(r.Context(), false)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, posts)
}

type CreateBlogPostPayload struct {
	Title   string `json:"title" validate:"required,min=1"`
	Content string `json:"content" validate:"required,min=1"`
	Excerpt string `json:"excerpt"`
	// Either a ready URL or a base64 upload
	CoverImage         string `json:"coverImage"`
	CoverImageBase64   string `json:"coverImageBase64"`
	CoverImageMimeType string `json:"coverImageMimeType"`
	IsPublished        *bool  `json:"isPublished"`
	ProductID          *int64 `json:"productId"`
}

func (app *application) createBlogPostHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateBlogPostPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	coverImage := nilIfEmpty(payload.CoverImage)
	var coverImageKey *string

	if payload.CoverImageBase64 != "" && payload.CoverImageMimeType != "" {
		stored, err := app.storeUploadedImages([]imageUpload{{Base64: payload.CoverImageBase64, MimeType: payload.CoverImageMimeType}}, "blog")
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		coverImage = &stored[0].URL
		coverImageKey = &stored[0].Key
	}

	isPublished := 1
	if payload.IsPublished != nil && !*payload.IsPublished {
		isPublished = 0
	}

	post := &store.BlogPost{
		Title:         payload.Title,
		Slug:          blogSlug(payload.Title),
		Content:       payload.Content,
		Excerpt:       nilIfEmpty(payload.Excerpt),
		CoverImage:    coverImage,
		CoverImageKey: coverImageKey,
		IsPublished:   isPublished,
		IsManual:      1,
		ProductID:     payload.ProductID,
	}

	created, err := app.store.Blog.Create(r.Context(), post)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, created)
}

type WebhookBlogPostPayload struct {
	Title   string `json:"title" validate:"required,min=1"`
	Content string `json:"content" validate:"required,min=1"`
	Excerpt string `json:"excerpt"`
	// coverImage wins over the legacy imageUrl field when both are sent
	CoverImage string `json:"coverImage"`
	ImageURL   string `json:"imageUrl"`
	ProductID  *int64 `json:"productId"`
	APIKey     string `json:"apiKey" validate:"required"`
}

// createBlogPostFromWebhookHandler is public but keyed: the automation
// pipeline authenticates with a shared API key, posts are auto-published.
func (app *application) createBlogPostFromWebhookHandler(w http.ResponseWriter, r *http.Request) {
	var payload WebhookBlogPostPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if subtle.ConstantTimeCompare([]byte(payload.APIKey), []byte(app.config.admin.blogAPIKey)) != 1 {
		app.unauthorizedErrorResponse(w, r, errors.New("Geçersiz API anahtarı"))
		return
	}

	coverImage := payload.CoverImage
	if coverImage == "" {
		coverImage = payload.ImageURL
	}

	post := &store.BlogPost{
		Title:       payload.Title,
		Slug:        blogSlug(payload.Title),
		Content:     payload.Content,
		Excerpt:     nilIfEmpty(payload.Excerpt),
		CoverImage:  nilIfEmpty(coverImage),
		IsPublished: 1,
		IsManual:    0,
		ProductID:   payload.ProductID,
	}

	created, err := app.store.Blog.Create(r.Context(), post)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, created)
}

type UpdateBlogPostPayload struct {
	Title              *string `json:"title" validate:"omitempty,min=1"`
	Content            *string `json:"content"`
	Excerpt            *string `json:"excerpt"`
	CoverImage         *string `json:"coverImage"`
	CoverImageBase64   string  `json:"coverImageBase64"`
	CoverImageMimeType string  `json:"coverImageMimeType"`
	IsPublished        *bool   `json:"isPublished"`
}

func (app *application) updateBlogPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readBlogPostID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateBlogPostPayload
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
	if payload.Content != nil {
		fields["content"] = *payload.Content
	}
	if payload.Excerpt != nil {
		fields["excerpt"] = *payload.Excerpt
	}
	if payload.CoverImage != nil {
		fields["coverImage"] = *payload.CoverImage
	}
	if payload.IsPublished != nil {
		fields["isPublished"] = boolToInt(*payload.IsPublished)
	}

	// A fresh upload replaces the cover: delete the old file first
	if payload.CoverImageBase64 != "" && payload.CoverImageMimeType != "" {
		existing, err := app.store.Blog.GetByID(r.Context(), id)
		if err == nil && existing.CoverImageKey != nil {
			app.uploads.Delete(*existing.CoverImageKey)
		}

		stored, err := app.storeUploadedImages([]imageUpload{{Base64: payload.CoverImageBase64, MimeType: payload.CoverImageMimeType}}, "blog")
		if err != nil {
			app.internalServerError(w, r, err)
			return
		}
		fields["coverImage"] = stored[0].URL
		fields["coverImageKey"] = stored[0].Key
	}

	updated, err := app.store.Blog.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Blog yazısı bulunamadı"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, updated)
}

func (app *application) deleteBlogPostHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readBlogPostID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	post, err := app.store.Blog.GetByID(r.Context(), id)
	if err == nil && post.CoverImageKey != nil {
		app.uploads.Delete(*post.CoverImageKey)
	}

	deleted, err := app.store.Blog.Delete(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]bool{"success": deleted})
}
