package models

import "github.com/shopspring/decimal"

// InventoryStats is the dashboard view of the whole catalog.
type InventoryStats struct {
	TotalProducts int
	TotalQuantity int
	TotalValue    decimal.Decimal
	Categories    []CategoryStats
}

type CategoryStats struct {
	ID            string
	Name          string
	Description   string
	ProductCount  int
	TotalQuantity int
	TotalValue    decimal.Decimal
	Products      []ProductStock
}

type ProductStock struct {
	ID       string
	Name     string
	SKU      string
	Category string
	Price    decimal.Decimal
	Quantity int
}

// InventorySummary is the short form of InventoryStats.
type InventorySummary struct {
	TotalProducts       int
	TotalItemsInStock   int
	TotalInventoryValue decimal.Decimal
	CategoriesCount     int
}

// BuildInventoryStats folds categories and products into InventoryStats.
// Products are expected to carry their Inventory; a nil inventory counts as
// zero. Categories keep the order they are given in, and so do their products.
func BuildInventoryStats(categories []Category, products []Product) InventoryStats {
	stats := InventoryStats{
		TotalProducts: len(products),
		TotalValue:    decimal.Zero,
		Categories:    make([]CategoryStats, 0, len(categories)),
	}

	byCategory := make(map[string][]Product, len(categories))
	for _, p := range products {
		qty := p.Quantity()
		stats.TotalQuantity = addQuantity(stats.TotalQuantity, qty)
		stats.TotalValue = stats.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], p)
	}
	stats.TotalValue = stats.TotalValue.Round(2)

	for _, c := range categories {
		cs := CategoryStats{
			ID:          c.ID,
			Name:        c.Name,
			Description: c.Description,
			TotalValue:  decimal.Zero,
			Products:    make([]ProductStock, 0, len(byCategory[c.ID])),
		}
		for _, p := range byCategory[c.ID] {
			qty := p.Quantity()
			cs.ProductCount++
			cs.TotalQuantity = addQuantity(cs.TotalQuantity, qty)
			cs.TotalValue = cs.TotalValue.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
			cs.Products = append(cs.Products, ProductStock{
				ID:       p.ID,
				Name:     p.Name,
				SKU:      p.SKU,
				Category: c.Name,
				Price:    p.Price,
				Quantity: qty,
			})
		}
		cs.TotalValue = cs.TotalValue.Round(2)
		stats.Categories = append(stats.Categories, cs)
	}

	return stats
}

// Summary reduces the stats to the figures shown in the header widgets.
func (s InventoryStats) Summary() InventorySummary {
	return InventorySummary{
		TotalProducts:       s.TotalProducts,
		TotalItemsInStock:   s.TotalQuantity,
		TotalInventoryValue: s.TotalValue,
		CategoriesCount:     len(s.Categories),
	}
}

// LowStock lists products whose quantity is strictly below threshold.
func (s InventoryStats) LowStock(threshold int) []ProductStock {
	low := make([]ProductStock, 0)
	for _, c := range s.Categories {
		for _, p := range c.Products {
			if p.Quantity < threshold {
				low = append(low, p)
			}
		}
	}
	return low
}
