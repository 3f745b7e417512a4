package categories

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mytheresa/inventory-ledger/app/api"
	"github.com/mytheresa/inventory-ledger/models"
)

type CategoryResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ProductCount *int64    `json:"productCount,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func newCategoryResponse(c *models.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func newCountedResponse(c *models.CategoryWithCount) CategoryResponse {
	resp := newCategoryResponse(&c.Category)
	count := c.ProductCount
	resp.ProductCount = &count
	return resp
}

type CategoryProvider interface {
	GetAllCategories(ctx context.Context) ([]models.CategoryWithCount, error)
	GetCategory(ctx context.Context, id string) (*models.CategoryWithCount, error)
	CreateCategory(ctx context.Context, category *models.Category) error
	UpdateCategory(ctx context.Context, id string, upd models.CategoryUpdate) (*models.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type CategoryHandler struct {
	repo   CategoryProvider
	logger *zap.Logger
}

func NewCategoryHandler(r CategoryProvider, logger *zap.Logger) *CategoryHandler {
	return &CategoryHandler{repo: r, logger: logger}
}

func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories(r.Context())
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i := range categories {
		response[i] = newCountedResponse(&categories[i])
	}
	api.OKResponse(w, http.StatusOK, response)
}

func (h *CategoryHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	category, err := h.repo.GetCategory(r.Context(), r.PathValue("id"))
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}
	api.OKResponse(w, http.StatusOK, newCountedResponse(category))
}

func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string `json:"name" validate:"required,max=255"`
		Description string `json:"description"`
	}
	if err := api.DecodeJSON(r, &input); err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
	}
	if err := h.repo.CreateCategory(r.Context(), category); err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	h.logger.Info("category created", zap.String("id", category.ID), zap.String("name", category.Name))
	api.OKResponse(w, http.StatusCreated, newCategoryResponse(category))
}

func (h *CategoryHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        *string `json:"name" validate:"omitempty,max=255"`
		Description *string `json:"description"`
	}
	if err := api.DecodeJSON(r, &input); err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	category, err := h.repo.UpdateCategory(r.Context(), r.PathValue("id"), models.CategoryUpdate{
		Name:        input.Name,
		Description: input.Description,
	})
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}
	api.OKResponse(w, http.StatusOK, newCategoryResponse(category))
}

func (h *CategoryHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.repo.DeleteCategory(r.Context(), id); err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	h.logger.Info("category deleted", zap.String("id", id))
	api.OKResponse(w, http.StatusOK, map[string]string{
		"message": "Category deleted successfully",
	})
}
