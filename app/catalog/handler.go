package catalog

import (
	"context"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mytheresa/inventory-ledger/app/api"
	"github.com/mytheresa/inventory-ledger/models"
)

type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Inventory struct {
	Quantity  int       `json:"quantity"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type Product struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	SKU         string     `json:"sku"`
	Price       float64    `json:"price"`
	CategoryID  string     `json:"categoryId"`
	Category    *Category  `json:"category,omitempty"`
	Inventory   *Inventory `json:"inventory,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// NewProduct maps a stored product, with whatever relations were loaded.
func NewProduct(p *models.Product) Product {
	out := Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		SKU:         p.SKU,
		Price:       p.Price.InexactFloat64(),
		CategoryID:  p.CategoryID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.Category.ID != "" {
		out.Category = &Category{
			ID:          p.Category.ID,
			Name:        p.Category.Name,
			Description: p.Category.Description,
		}
	}
	if p.Inventory != nil {
		out.Inventory = &Inventory{
			Quantity:  p.Inventory.Quantity,
			UpdatedAt: p.Inventory.UpdatedAt,
		}
	}
	return out
}

type ProductProvider interface {
	GetAllProducts(ctx context.Context) ([]models.Product, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	CreateProduct(ctx context.Context, in models.ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, upd models.ProductUpdate) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

type CatalogHandler struct {
	repo   ProductProvider
	logger *zap.Logger
}

func NewCatalogHandler(r ProductProvider, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{
		repo:   r,
		logger: logger,
	}
}

func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	res, err := h.repo.GetAllProducts(r.Context())
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	products := make([]Product, len(res))
	for i := range res {
		products[i] = NewProduct(&res[i])
	}
	api.OKResponse(w, http.StatusOK, products)
}

func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.repo.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}
	api.OKResponse(w, http.StatusOK, NewProduct(product))
}

type createProductRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Description string           `json:"description"`
	SKU         string           `json:"sku" validate:"required,max=100"`
	Price       *decimal.Decimal `json:"price" validate:"required"`
	CategoryID  string           `json:"categoryId" validate:"required"`
}

func (h *CatalogHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input createProductRequest
	if err := api.DecodeJSON(r, &input); err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	product, err := h.repo.CreateProduct(r.Context(), models.ProductInput{
		Name:        input.Name,
		Description: input.Description,
		SKU:         input.SKU,
		Price:       *input.Price,
		CategoryID:  input.CategoryID,
	})
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	h.logger.Info("product created", zap.String("id", product.ID), zap.String("sku", product.SKU))
	api.OKResponse(w, http.StatusCreated, NewProduct(product))
}

type updateProductRequest struct {
	Name        *string          `json:"name" validate:"omitempty,max=255"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	CategoryID  *string          `json:"categoryId"`
}

func (h *CatalogHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var input updateProductRequest
	if err := api.DecodeJSON(r, &input); err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	product, err := h.repo.UpdateProduct(r.Context(), r.PathValue("id"), models.ProductUpdate{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
	})
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}
	api.OKResponse(w, http.StatusOK, NewProduct(product))
}

func (h *CatalogHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := h.repo.DeleteProduct(r.Context(), id); err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	h.logger.Info("product deleted", zap.String("id", id))
	api.OKResponse(w, http.StatusOK, map[string]string{
		"message": "Product deleted successfully",
	})
}
