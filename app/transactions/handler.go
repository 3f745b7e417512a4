package transactions

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/mytheresa/inventory-ledger/app/api"
	"github.com/mytheresa/inventory-ledger/app/catalog"
	"github.com/mytheresa/inventory-ledger/app/events"
	"github.com/mytheresa/inventory-ledger/app/idempotency"
	"github.com/mytheresa/inventory-ledger/app/metrics"
	"github.com/mytheresa/inventory-ledger/models"
)

const IdempotencyHeader = "Idempotency-Key"

var errDuplicateRequest = errors.New("duplicate request: idempotency key already used")

type Transaction struct {
	ID          string           `json:"id"`
	ProductID   *string          `json:"productId"`
	ProductSKU  string           `json:"productSku"`
	ProductName string           `json:"productName"`
	Type        string           `json:"type"`
	Quantity    int              `json:"quantity"`
	Reason      string           `json:"reason"`
	Notes       string           `json:"notes"`
	CreatedAt   time.Time        `json:"createdAt"`
	Product     *catalog.Product `json:"product,omitempty"`
}

func newTransaction(t *models.Transaction) Transaction {
	out := Transaction{
		ID:          t.ID,
		ProductID:   t.ProductID,
		ProductSKU:  t.ProductSKU,
		ProductName: t.ProductName,
		Type:        string(t.Type),
		Quantity:    t.Quantity,
		Reason:      t.Reason,
		Notes:       t.Notes,
		CreatedAt:   t.CreatedAt,
	}
	if t.Product != nil {
		p := catalog.NewProduct(t.Product)
		out.Product = &p
	}
	return out
}

type TransactionProvider interface {
	RecordTransaction(ctx context.Context, in models.TransactionInput) (*models.Transaction, error)
	ListTransactions(ctx context.Context, filter models.TransactionFilter) ([]models.Transaction, error)
	GetTransaction(ctx context.Context, id string) (*models.Transaction, error)
}

type TransactionHandler struct {
	repo      TransactionProvider
	guard     idempotency.Guard
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewTransactionHandler(
	repo TransactionProvider,
	guard idempotency.Guard,
	publisher events.Publisher,
	m *metrics.Metrics,
	logger *zap.Logger,
) *TransactionHandler {
	return &TransactionHandler{
		repo:      repo,
		guard:     guard,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (h *TransactionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	limit, err := api.QueryInt(r, "limit", 0)
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	res, err := h.repo.ListTransactions(r.Context(), models.TransactionFilter{
		ProductID: r.URL.Query().Get("product_id"),
		Limit:     limit,
	})
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}

	txs := make([]Transaction, len(res))
	for i := range res {
		txs[i] = newTransaction(&res[i])
	}
	api.OKResponse(w, http.StatusOK, txs)
}

func (h *TransactionHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	t, err := h.repo.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		api.Fail(w, r, h.logger, err)
		return
	}
	api.OKResponse(w, http.StatusOK, newTransaction(t))
}

type createTransactionRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Type      string `json:"type" validate:"required,oneof=ENTRY EXIT"`
	Quantity  int    `json:"quantity" validate:"gt=0,lte=1000000000"`
	Reason    string `json:"reason" validate:"max=255"`
	Notes     string `json:"notes"`
}

// HandleCreate records a stock movement. When the request carries an
// Idempotency-Key the key is claimed before recording and released again if
// recording fails, so a retry after an error is still accepted.
func (h *TransactionHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input createTransactionRequest
	if err := api.DecodeJSON(r, &input); err != nil {
		h.reject(w, r, err)
		return
	}

	ctx := r.Context()
	key := r.Header.Get(IdempotencyHeader)
	if key != "" {
		ok, err := h.guard.Claim(ctx, key)
		if err != nil {
			h.reject(w, r, err)
			return
		}
		if !ok {
			h.metrics.TransactionRejected(http.StatusConflict)
			api.ErrorResponse(w, http.StatusConflict, errDuplicateRequest.Error())
			return
		}
	}

	t, err := h.repo.RecordTransaction(ctx, models.TransactionInput{
		ProductID: input.ProductID,
		Type:      models.TransactionType(input.Type),
		Quantity:  input.Quantity,
		Reason:    input.Reason,
		Notes:     input.Notes,
	})
	if err != nil {
		if key != "" {
			if relErr := h.guard.Release(context.WithoutCancel(ctx), key); relErr != nil {
				h.logger.Warn("release idempotency key", zap.String("key", key), zap.Error(relErr))
			}
		}
		h.reject(w, r, err)
		return
	}

	h.metrics.TransactionRecorded(string(t.Type), t.Quantity)
	h.logger.Info("transaction recorded",
		zap.String("id", t.ID),
		zap.String("product_id", input.ProductID),
		zap.String("type", string(t.Type)),
		zap.Int("quantity", t.Quantity),
	)
	if err := h.publisher.PublishTransaction(context.WithoutCancel(ctx), events.NewTransactionRecorded(t)); err != nil {
		h.logger.Error("publish transaction event", zap.String("id", t.ID), zap.Error(err))
	}

	api.OKResponse(w, http.StatusCreated, newTransaction(t))
}

func (h *TransactionHandler) reject(w http.ResponseWriter, r *http.Request, err error) {
	h.metrics.TransactionRejected(api.StatusFor(err))
	api.Fail(w, r, h.logger, err)
}
