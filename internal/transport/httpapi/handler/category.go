package handler

import (
	"context"
	"net/http"

	"github.com/kislikjeka/warungku/internal/platform/category"
	"github.com/kislikjeka/warungku/pkg/logger"
)

// CategoryServiceInterface defines the category registry operations
type CategoryServiceInterface interface {
	Create(ctx context.Context, t category.Type, name string) (*category.Category, error)
	List(ctx context.Context, t *category.Type) ([]*category.Category, error)
	Delete(ctx context.Context, id int64) error
}

// CategoryHandler handles category registry requests
type CategoryHandler struct {
	categoryService CategoryServiceInterface
	log             *logger.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(categoryService CategoryServiceInterface, log *logger.Logger) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService, log: log}
}

// CreateCategoryRequest is the body of POST /categories
type CreateCategoryRequest struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// GetCategories handles GET /categories?type=INCOME
func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	var filter *category.Type
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, err := category.ParseType(raw)
		if err != nil {
			respondAppError(w, r, h.log, err)
			return
		}
		filter = &t
	}

	categories, err := h.categoryService.List(r.Context(), filter)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}
	if categories == nil {
		categories = []*category.Category{}
	}

	respondJSON(w, map[string]interface{}{"categories": categories}, http.StatusOK)
}

// CreateCategory handles POST /categories
func (h *CategoryHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req CreateCategoryRequest
	if err := decodeJSON(r, &req, false); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	t, err := category.ParseType(req.Type)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	created, err := h.categoryService.Create(r.Context(), t, req.Name)
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	respondJSON(w, created, http.StatusCreated)
}

// DeleteCategory handles DELETE /categories/{id}
func (h *CategoryHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathInt64(r, "id")
	if err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	if err := h.categoryService.Delete(r.Context(), id); err != nil {
		respondAppError(w, r, h.log, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
