package models

import (
	"context"
	"database/sql"
	"fmt"

	"gorm.io/gorm"
)

// snapshotTxOptions gives multi-statement reads one consistent view of the store.
var snapshotTxOptions = &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}

// StatsRepository computes dashboard figures from the current catalog and
// inventory. Nothing is cached; every call reads the store again.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func (r *StatsRepository) ComputeInventoryStats(ctx context.Context) (InventoryStats, error) {
	var (
		categories []Category
		products   []Product
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("name, id").Find(&categories).Error; err != nil {
			return fmt.Errorf("list categories: %w", err)
		}
		if err := tx.Preload("Inventory").Order("name, id").Find(&products).Error; err != nil {
			return fmt.Errorf("list products: %w", err)
		}
		return nil
	}, snapshotTxOptions)
	if err != nil {
		return InventoryStats{}, err
	}
	return BuildInventoryStats(categories, products), nil
}

func (r *StatsRepository) InventorySummary(ctx context.Context) (InventorySummary, error) {
	stats, err := r.ComputeInventoryStats(ctx)
	if err != nil {
		return InventorySummary{}, err
	}
	return stats.Summary(), nil
}

func (r *StatsRepository) LowStockProducts(ctx context.Context, threshold int) ([]ProductStock, error) {
	stats, err := r.ComputeInventoryStats(ctx)
	if err != nil {
		return nil, err
	}
	return stats.LowStock(threshold), nil
}
