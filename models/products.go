package models

import (
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Column limits of the catalog tables.
const (
	MaxNameLength = 255
	MaxSKULength  = 100
)

// MaxPriceExclusive is the first price decimal(10,2) cannot store.
var MaxPriceExclusive = decimal.New(1, 8)

// Product represents a product in the catalog.
// Every product owns exactly one Inventory row, created together with it.
type Product struct {
	ID          string          `gorm:"type:varchar(36);primaryKey"`
	Name        string          `gorm:"type:varchar(255);not null"`
	Description string          `gorm:"type:text"`
	SKU         string          `gorm:"column:sku;type:varchar(100);uniqueIndex;not null"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	CategoryID  string          `gorm:"type:varchar(36);not null;index"`
	Category    Category        `gorm:"foreignKey:CategoryID"`
	Inventory   *Inventory      `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Product) TableName() string {
	return "products"
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Quantity returns the on-hand quantity, treating a missing inventory as zero.
func (p *Product) Quantity() int {
	if p.Inventory == nil {
		return 0
	}
	return p.Inventory.Quantity
}

// ValidatePrice rejects prices the price column cannot hold.
func ValidatePrice(price decimal.Decimal) error {
	switch {
	case price.IsNegative():
		return ErrNegativePrice
	case price.Round(2).GreaterThanOrEqual(MaxPriceExclusive):
		return ErrPriceTooLarge
	}
	return nil
}

func validateLength(s string, limit int, tooLong error) error {
	if utf8.RuneCountInString(s) > limit {
		return tooLong
	}
	return nil
}
