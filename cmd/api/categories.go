package main

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"spotcu/internal/store"

	"github.com/go-chi/chi/v5"
)

func (app *application) readCategoryID(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "categoryID")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid category ID: %s", idStr)
	}
	return id, nil
}

func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	filter := store.CategoryFilter{
		ParentCategory: r.URL.Query().Get("parentCategory"),
		ActiveOnly:     true,
	}

	categories, err := app.store.Categories.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, categories)
}

func (app *application) adminListCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	filter := store.CategoryFilter{
		ParentCategory: r.URL.Query().Get("parentCategory"),
	}

	categories, err := app.store.Categories.List(r.Context(), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, categories)
}

type CreateCategoryPayload struct {
	Name           string `json:"name" validate:"required,min=1"`
	ParentCategory string `json:"parentCategory" validate:"required,oneof=mobilya beyaz_esya"`
	SortOrder      int    `json:"sortOrder"`
}

func (app *application) createCategoryHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	category := &store.Category{
		Name:           payload.Name,
		Slug:           categorySlug(payload.Name),
		ParentCategory: payload.ParentCategory,
		SortOrder:      payload.SortOrder,
	}

	created, err := app.store.Categories.Create(r.Context(), category)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			app.conflictResponse(w, r, errors.New("Bu isimde bir kategori zaten var"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusCreated, created)
}

type UpdateCategoryPayload struct {
	Name      *string `json:"name" validate:"omitempty,min=1"`
	IsActive  *bool   `json:"isActive"`
	SortOrder *int    `json:"sortOrder"`
}

func (app *application) updateCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readCategoryID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload UpdateCategoryPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	fields := map[string]any{}
	if payload.Name != nil {
		fields["name"] = *payload.Name
		// The slug tracks the name
		fields["slug"] = categorySlug(*payload.Name)
	}
	if payload.IsActive != nil {
		fields["isActive"] = boolToInt(*payload.IsActive)
	}
	if payload.SortOrder != nil {
		fields["sortOrder"] = *payload.SortOrder
	}

	updated, err := app.store.Categories.Update(r.Context(), id, fields)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			app.conflictResponse(w, r, errors.New("Bu isimde bir kategori zaten var"))
			return
		}
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, errors.New("Kategori bulunamadı"))
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, updated)
}

// deleteCategoryHandler does not cascade: products referencing the slug
// keep it as a dangling string.
func (app *application) deleteCategoryHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readCategoryID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	deleted, err := app.store.Categories.Delete(r.Context(), id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]bool{"success": deleted})
}
