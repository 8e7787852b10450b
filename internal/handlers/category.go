package handlers

import (
	"encoding/json"
	"net/http"

	"todoapp/internal/models"
)

type createCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type updateCategoryRequest struct {
	Name  models.Optional[string] `json:"name"`
	Color models.Optional[string] `json:"color"`
}

// ListCategories returns all categories ordered by name.
func (h *Handlers) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.ListCategories(r.Context())
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, categories)
}

// CreateCategory creates a new category.
func (h *Handlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, "invalid json body")
		return
	}

	category := &models.Category{Name: req.Name, Color: req.Color}
	if err := category.Validate(); err != nil {
		respondValidationError(w, err.Error())
		return
	}

	if err := h.store.CreateCategory(r.Context(), category); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, category)
}

// UpdateCategory applies a partial update to a category.
func (h *Handlers) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondValidationError(w, "invalid category id")
		return
	}

	category, err := h.store.GetCategory(ctx, id)
	if err != nil {
		respondStoreError(w, err)
		return
	}

	var req updateCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondValidationError(w, "invalid json body")
		return
	}

	if req.Name.Set {
		if !req.Name.Valid {
			respondValidationError(w, "name cannot be null")
			return
		}
		category.Name = req.Name.Value
	}

	if req.Color.Set {
		if !req.Color.Valid {
			respondValidationError(w, "color cannot be null")
			return
		}
		category.Color = req.Color.Value
	}

	if err := category.Validate(); err != nil {
		respondValidationError(w, err.Error())
		return
	}

	if err := h.store.UpdateCategory(ctx, category); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, category)
}

// DeleteCategory deletes a category, detaching its tasks first.
func (h *Handlers) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondValidationError(w, "invalid category id")
		return
	}

	if err := h.store.DeleteCategory(r.Context(), id); err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
