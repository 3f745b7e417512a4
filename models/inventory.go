package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Inventory is the current-quantity projection of a product's transactions.
// Quantity is never negative and is only changed by the ledger.
type Inventory struct {
	ID        string `gorm:"type:varchar(36);primaryKey"`
	ProductID string `gorm:"type:varchar(36);uniqueIndex;not null"`
	Quantity  int    `gorm:"not null;default:0;check:quantity >= 0"`
	UpdatedAt time.Time
}

func (i *Inventory) TableName() string {
	return "inventory"
}

func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
