package inventory

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/mytheresa/inventory-ledger/app/api"
	"github.com/mytheresa/inventory-ledger/models"
)

type ProductStock struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	SKU      string  `json:"sku"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

type CategoryStats struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	ProductCount  int            `json:"productCount"`
	TotalQuantity int            `json:"totalQuantity"`
	TotalValue    float64        `json:"totalValue"`
	Products      []ProductStock `json:"products"`
}

type StatsResponse struct {
	TotalProducts int             `json:"totalProducts"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalValue    float64         `json:"totalValue"`
	Categories    []CategoryStats `json:"categories"`
}

type SummaryResponse struct {
	TotalProducts       int     `json:"totalProducts"`
	TotalItemsInStock   int     `json:"totalItemsInStock"`
	TotalInventoryValue float64 `json:"totalInventoryValue"`
	CategoriesCount     int     `json:"categoriesCount"`
}

type LowStockResponse struct {
	Threshold int            `json:"threshold"`
	Count     int            `json:"count"`
	Products  []ProductStock `json:"products"`
}

type TransactionsSummaryResponse struct {
	TotalEntries      int64 `json:"totalEntries"`
	TotalExits        int64 `json:"totalExits"`
	TotalTransactions int64 `json:"totalTransactions"`
}

type Reconciliation struct {
	ProductID        string `json:"productId"`
	ProductSKU       string `json:"productSku"`
	LedgerQuantity   int    `json:"ledgerQuantity"`
	ReplayedQuantity int    `json:"replayedQuantity"`
	TransactionCount int    `json:"transactionCount"`
	InSync           bool   `json:"inSync"`
}

type ReconcileResponse struct {
	InSync   bool             `json:"inSync"`
	Products []Reconciliation `json:"products"`
}

func newProductStocks(in []models.ProductStock) []ProductStock {
	out := make([]ProductStock, len(in))
	for i, p := range in {
		out[i] = ProductStock{
			ID:       p.ID,
			Name:     p.Name,
			SKU:      p.SKU,
			Category: p.Category,
			Price:    p.Price.InexactFloat64(),
			Quantity: p.Quantity,
		}
	}
	return out
}

type StatsProvider interface {
	ComputeInventoryStats(ctx context.Context) (models.InventoryStats, error)
	InventorySummary(ctx context.Context) (models.InventorySummary, error)
	LowStockProducts(ctx context.Context, threshold int) ([]models.ProductStock, error)
}

type LedgerAuditor interface {
	TransactionsSummary(ctx context.Context) (models.TransactionsSummary, error)
	ReconcileAll(ctx context.Context) ([]models.Reconciliation, error)
}

type InventoryHandler struct {
	stats            StatsProvider
	ledger           LedgerAuditor
	defaultThreshold int
	logger           *zap.Logger
}

func NewInventoryHandler(stats StatsProvider, ledger LedgerAuditor, defaultThreshold int, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		stats:            stats,
		ledger:           ledger,
		defaultThreshold: defaultThreshold,
		logger:           logger,
	}
}

func (h *InventoryHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.ComputeInventoryStats(r.Context())
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	categories := make([]CategoryStats, len(stats.Categories))
	for i, c := range stats.Categories {
		categories[i] = CategoryStats{
			ID:            c.ID,
			Name:          c.Name,
			Description:   c.Description,
			ProductCount:  c.ProductCount,
			TotalQuantity: c.TotalQuantity,
			TotalValue:    c.TotalValue.InexactFloat64(),
			Products:      newProductStocks(c.Products),
		}
	}
	api.OKResponse(w, http.StatusOK, StatsResponse{
		TotalProducts: stats.TotalProducts,
		TotalQuantity: stats.TotalQuantity,
		TotalValue:    stats.TotalValue.InexactFloat64(),
		Categories:    categories,
	})
}

func (h *InventoryHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.InventorySummary(r.Context())
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}
	api.OKResponse(w, http.StatusOK, SummaryResponse{
		TotalProducts:       summary.TotalProducts,
		TotalItemsInStock:   summary.TotalItemsInStock,
		TotalInventoryValue: summary.TotalInventoryValue.InexactFloat64(),
		CategoriesCount:     summary.CategoriesCount,
	})
}

func (h *InventoryHandler) HandleLowStock(w http.ResponseWriter, r *http.Request) {
	threshold, err := api.QueryInt(r, "threshold", h.defaultThreshold)
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	products, err := h.stats.LowStockProducts(r.Context(), threshold)
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}
	api.OKResponse(w, http.StatusOK, LowStockResponse{
		Threshold: threshold,
		Count:     len(products),
		Products:  newProductStocks(products),
	})
}

func (h *InventoryHandler) HandleTransactionsSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ledger.TransactionsSummary(r.Context())
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}
	api.OKResponse(w, http.StatusOK, TransactionsSummaryResponse{
		TotalEntries:      summary.TotalEntries,
		TotalExits:        summary.TotalExits,
		TotalTransactions: summary.TotalTransactions,
	})
}

// HandleReconcile replays every product's log and reports where the live
// quantity differs. Drift is logged; it means something other than the
// ledger wrote to inventory.
func (h *InventoryHandler) HandleReconcile(w http.ResponseWriter, r *http.Request) {
	recs, err := h.ledger.ReconcileAll(r.Context())
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	resp := ReconcileResponse{InSync: true, Products: make([]Reconciliation, len(recs))}
	for i, rec := range recs {
		resp.Products[i] = Reconciliation{
			ProductID:        rec.ProductID,
			ProductSKU:       rec.ProductSKU,
			LedgerQuantity:   rec.LedgerQuantity,
			ReplayedQuantity: rec.ReplayedQuantity,
			TransactionCount: rec.TransactionCount,
			InSync:           rec.InSync(),
		}
		if !rec.InSync() {
			resp.InSync = false
			h.logger.Error("inventory drift",
				zap.String("product_id", rec.ProductID),
				zap.Int("ledger", rec.LedgerQuantity),
				zap.Int("replayed", rec.ReplayedQuantity),
			)
		}
	}
	api.OKResponse(w, http.StatusOK, resp)
}
