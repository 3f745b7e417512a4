package models

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- Helpers ---

func newStockedProduct(id, categoryID string, price string, quantity int) Product {
	return Product{
		ID:         id,
		Name:       "Product " + id,
		SKU:        "SKU-" + id,
		Price:      decimal.RequireFromString(price),
		CategoryID: categoryID,
		Inventory:  &Inventory{ProductID: id, Quantity: quantity},
	}
}

// --- Tests ---

func TestBuildInventoryStats(t *testing.T) {
	categories := []Category{
		{ID: "c1", Name: "Clothing", Description: "Shirts and trousers"},
		{ID: "c2", Name: "Shoes"},
		{ID: "c3", Name: "Empty"},
	}
	products := []Product{
		newStockedProduct("p1", "c1", "10.00", 5),
		newStockedProduct("p2", "c1", "2.50", 4),
		newStockedProduct("p3", "c2", "99.99", 1),
	}

	stats := BuildInventoryStats(categories, products)

	assert.Equal(t, 3, stats.TotalProducts)
	assert.Equal(t, 10, stats.TotalQuantity)
	assert.True(t, decimal.RequireFromString("159.99").Equal(stats.TotalValue), "got %s", stats.TotalValue)

	require.Len(t, stats.Categories, 3)

	clothing := stats.Categories[0]
	assert.Equal(t, "c1", clothing.ID)
	assert.Equal(t, "Shirts and trousers", clothing.Description)
	assert.Equal(t, 2, clothing.ProductCount)
	assert.Equal(t, 9, clothing.TotalQuantity)
	assert.True(t, decimal.RequireFromString("60").Equal(clothing.TotalValue))
	require.Len(t, clothing.Products, 2)
	assert.Equal(t, "p1", clothing.Products[0].ID)
	assert.Equal(t, 5, clothing.Products[0].Quantity)
	assert.Equal(t, "Clothing", clothing.Products[0].Category)

	empty := stats.Categories[2]
	assert.Equal(t, 0, empty.ProductCount)
	assert.Equal(t, 0, empty.TotalQuantity)
	assert.NotNil(t, empty.Products)
	assert.Empty(t, empty.Products)
}

func TestBuildInventoryStats_PriceTimesQuantity(t *testing.T) {
	categories := []Category{{ID: "c", Name: "C"}}
	products := []Product{newStockedProduct("p", "c", "10.00", 5)}

	stats := BuildInventoryStats(categories, products)

	assert.True(t, decimal.NewFromInt(50).Equal(stats.TotalValue))
	assert.True(t, decimal.NewFromInt(50).Equal(stats.Categories[0].TotalValue))
}

func TestBuildInventoryStats_MissingInventoryCountsAsZero(t *testing.T) {
	categories := []Category{{ID: "c", Name: "C"}}
	orphan := newStockedProduct("p", "c", "12.00", 0)
	orphan.Inventory = nil

	stats := BuildInventoryStats(categories, []Product{orphan})

	assert.Equal(t, 1, stats.TotalProducts)
	assert.Equal(t, 0, stats.TotalQuantity)
	assert.True(t, stats.TotalValue.IsZero())
	assert.Equal(t, 0, stats.Categories[0].Products[0].Quantity)
}

func TestBuildInventoryStats_Empty(t *testing.T) {
	stats := BuildInventoryStats(nil, nil)

	assert.Equal(t, 0, stats.TotalProducts)
	assert.True(t, stats.TotalValue.IsZero())
	assert.NotNil(t, stats.Categories)
}

func TestBuildInventoryStats_QuantityTotalsSaturate(t *testing.T) {
	categories := []Category{{ID: "c", Name: "C"}}
	products := []Product{
		newStockedProduct("p1", "c", "0.00", math.MaxInt),
		newStockedProduct("p2", "c", "0.00", 2),
	}

	stats := BuildInventoryStats(categories, products)

	assert.Equal(t, math.MaxInt, stats.TotalQuantity)
	assert.Equal(t, math.MaxInt, stats.Categories[0].TotalQuantity)
}

func TestBuildInventoryStats_Deterministic(t *testing.T) {
	categories := []Category{{ID: "c1", Name: "A"}, {ID: "c2", Name: "B"}}
	products := []Product{
		newStockedProduct("p1", "c1", "1.10", 3),
		newStockedProduct("p2", "c2", "0.33", 7),
	}

	first := BuildInventoryStats(categories, products)
	second := BuildInventoryStats(categories, products)

	assert.Equal(t, first, second)
}

func TestInventoryStats_SummaryAndLowStock(t *testing.T) {
	categories := []Category{{ID: "c", Name: "C"}}
	products := []Product{
		newStockedProduct("p1", "c", "1.00", 3),
		newStockedProduct("p2", "c", "1.00", 10),
		newStockedProduct("p3", "c", "1.00", 0),
	}
	stats := BuildInventoryStats(categories, products)

	summary := stats.Summary()
	assert.Equal(t, 3, summary.TotalProducts)
	assert.Equal(t, 13, summary.TotalItemsInStock)
	assert.Equal(t, 1, summary.CategoriesCount)
	assert.True(t, decimal.NewFromInt(13).Equal(summary.TotalInventoryValue))

	low := stats.LowStock(10)
	require.Len(t, low, 2)
	assert.Equal(t, "p1", low[0].ID)
	assert.Equal(t, "p3", low[1].ID)
	assert.Empty(t, stats.LowStock(0))
}
