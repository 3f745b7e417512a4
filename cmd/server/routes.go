package main

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/mytheresa/inventory-ledger/app/api"
	"github.com/mytheresa/inventory-ledger/app/catalog"
	"github.com/mytheresa/inventory-ledger/app/categories"
	"github.com/mytheresa/inventory-ledger/app/inventory"
	"github.com/mytheresa/inventory-ledger/app/logging"
	"github.com/mytheresa/inventory-ledger/app/metrics"
	"github.com/mytheresa/inventory-ledger/app/transactions"
)

type handlers struct {
	catalog      *catalog.CatalogHandler
	categories   *categories.CategoryHandler
	transactions *transactions.TransactionHandler
	inventory    *inventory.InventoryHandler
}

func newRouter(h handlers, m *metrics.Metrics, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	route := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, m.Instrument(pattern, fn))
	}

	route("GET /api/products", h.catalog.HandleGet)
	route("POST /api/products", h.catalog.HandleCreate)
	route("GET /api/products/{id}", h.catalog.HandleGetProduct)
	route("PUT /api/products/{id}", h.catalog.HandleUpdate)
	route("DELETE /api/products/{id}", h.catalog.HandleDelete)

	route("GET /api/categories", h.categories.HandleGetAll)
	route("POST /api/categories", h.categories.HandleCreate)
	route("GET /api/categories/{id}", h.categories.HandleGet)
	route("PUT /api/categories/{id}", h.categories.HandleUpdate)
	route("DELETE /api/categories/{id}", h.categories.HandleDelete)

	route("GET /api/transactions", h.transactions.HandleList)
	route("POST /api/transactions", h.transactions.HandleCreate)
	route("GET /api/transactions/{id}", h.transactions.HandleGet)

	route("GET /api/inventory/stats", h.inventory.HandleStats)
	route("GET /api/inventory/summary", h.inventory.HandleSummary)
	route("GET /api/inventory/low-stock", h.inventory.HandleLowStock)
	route("GET /api/inventory/transactions-summary", h.inventory.HandleTransactionsSummary)
	route("GET /api/inventory/reconcile", h.inventory.HandleReconcile)

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		api.OKResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("GET /metrics", m.Handler())

	return logging.Middleware(logger, mux)
}
