package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TransactionsRepository is the append-only transaction log. It is the only
// writer of Inventory.Quantity.
type TransactionsRepository struct {
	db     *gorm.DB
	policy OverdrawPolicy
}

func NewTransactionsRepository(db *gorm.DB, policy OverdrawPolicy) *TransactionsRepository {
	if policy == "" {
		policy = OverdrawClamp
	}
	return &TransactionsRepository{db: db, policy: policy}
}

func (r *TransactionsRepository) Policy() OverdrawPolicy {
	return r.policy
}

// RecordTransaction appends a movement and applies it to the product's
// inventory in one database transaction. The inventory row is locked for the
// duration, so concurrent movements on the same product are applied one after
// another.
func (r *TransactionsRepository) RecordTransaction(ctx context.Context, in TransactionInput) (*Transaction, error) {
	in.ProductID = strings.TrimSpace(in.ProductID)
	if in.ProductID == "" {
		return nil, ErrProductIDRequired
	}
	if err := ValidateMovement(in.Type, in.Quantity); err != nil {
		return nil, err
	}

	var recorded *Transaction
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The share lock keeps DeleteProduct out until this movement commits.
		var product Product
		if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).Where("id = ?", in.ProductID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("get product: %w", err)
		}

		inventory, err := lockInventory(tx, product.ID)
		if err != nil {
			return err
		}

		next, err := ApplyDelta(inventory.Quantity, in.Type, in.Quantity, r.policy)
		if err != nil {
			return err
		}

		productID := product.ID
		entry := Transaction{
			ProductID:   &productID,
			ProductSKU:  product.SKU,
			ProductName: product.Name,
			Type:        in.Type,
			Quantity:    in.Quantity,
			Reason:      in.Reason,
			Notes:       in.Notes,
		}
		if err := tx.Omit(clause.Associations).Create(&entry).Error; err != nil {
			return fmt.Errorf("append transaction: %w", err)
		}

		res := tx.Model(&Inventory{}).Where("id = ?", inventory.ID).Update("quantity", next)
		if res.Error != nil {
			return fmt.Errorf("apply transaction: %w", res.Error)
		}
		if res.RowsAffected != 1 {
			return ErrInventoryMissing
		}

		t, err := loadTransaction(tx, entry.ID)
		if err != nil {
			return err
		}
		recorded = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recorded, nil
}

// ListTransactions returns transactions newest first, joined with their
// product and its category.
func (r *TransactionsRepository) ListTransactions(ctx context.Context, filter TransactionFilter) ([]Transaction, error) {
	query := r.db.WithContext(ctx).
		Preload("Product").
		Preload("Product.Category").
		Preload("Product.Inventory").
		Order("created_at DESC").
		Order("sequence DESC")

	if filter.ProductID != "" {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var txs []Transaction
	if err := query.Find(&txs).Error; err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (r *TransactionsRepository) GetTransaction(ctx context.Context, id string) (*Transaction, error) {
	return loadTransaction(r.db.WithContext(ctx), id)
}

func (r *TransactionsRepository) TransactionsSummary(ctx context.Context) (TransactionsSummary, error) {
	var rows []struct {
		Type  TransactionType
		Count int64
	}
	if err := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Select("type, COUNT(*) AS count").
		Group("type").
		Scan(&rows).Error; err != nil {
		return TransactionsSummary{}, fmt.Errorf("summarize transactions: %w", err)
	}

	var summary TransactionsSummary
	for _, row := range rows {
		switch row.Type {
		case TransactionEntry:
			summary.TotalEntries = row.Count
		case TransactionExit:
			summary.TotalExits = row.Count
		}
	}
	summary.TotalTransactions = summary.TotalEntries + summary.TotalExits
	return summary, nil
}

// ReconcileProduct replays the product's log and compares the result with
// its live inventory.
func (r *TransactionsRepository) ReconcileProduct(ctx context.Context, productID string) (Reconciliation, error) {
	var rec Reconciliation
	err := r.readSnapshot(ctx, func(tx *gorm.DB) error {
		var product Product
		if err := tx.Preload("Inventory").Where("id = ?", productID).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("get product: %w", err)
		}

		var txs []Transaction
		if err := tx.Where("product_id = ?", productID).Order("sequence").Find(&txs).Error; err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}

		var err error
		rec, err = reconcile(product, txs)
		return err
	})
	return rec, err
}

// ReconcileAll reconciles every product.
func (r *TransactionsRepository) ReconcileAll(ctx context.Context) ([]Reconciliation, error) {
	var recs []Reconciliation
	err := r.readSnapshot(ctx, func(tx *gorm.DB) error {
		var products []Product
		if err := tx.Preload("Inventory").Order("sku").Find(&products).Error; err != nil {
			return fmt.Errorf("list products: %w", err)
		}

		var txs []Transaction
		if err := tx.Where("product_id IS NOT NULL").Order("sequence").Find(&txs).Error; err != nil {
			return fmt.Errorf("load transactions: %w", err)
		}
		byProduct := make(map[string][]Transaction, len(products))
		for _, t := range txs {
			byProduct[*t.ProductID] = append(byProduct[*t.ProductID], t)
		}

		recs = make([]Reconciliation, 0, len(products))
		for _, p := range products {
			rec, err := reconcile(p, byProduct[p.ID])
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

func (r *TransactionsRepository) readSnapshot(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn, snapshotTxOptions)
}

func reconcile(product Product, txs []Transaction) (Reconciliation, error) {
	if product.Inventory == nil {
		return Reconciliation{}, fmt.Errorf("%w: %s", ErrInventoryMissing, product.ID)
	}
	replayed, err := ReplayQuantity(txs)
	if err != nil {
		return Reconciliation{}, err
	}
	return Reconciliation{
		ProductID:        product.ID,
		ProductSKU:       product.SKU,
		LedgerQuantity:   product.Inventory.Quantity,
		ReplayedQuantity: replayed,
		TransactionCount: len(txs),
	}, nil
}

// lockInventory reads the product's inventory row with FOR UPDATE.
func lockInventory(tx *gorm.DB, productID string) (*Inventory, error) {
	var inventory Inventory
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&inventory).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrInventoryMissing, productID)
		}
		return nil, fmt.Errorf("lock inventory: %w", err)
	}
	return &inventory, nil
}

func loadTransaction(db *gorm.DB, id string) (*Transaction, error) {
	var t Transaction
	if err := db.
		Preload("Product").
		Preload("Product.Category").
		Preload("Product.Inventory").
		Where("id = ?", id).
		First(&t).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	return &t, nil
}
