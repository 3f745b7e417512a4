package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Transaction is an immutable stock movement. Once written it is never
// updated or deleted; when its product is deleted ProductID becomes nil and
// the SKU/name snapshot keeps the record readable.
type Transaction struct {
	ID          string          `gorm:"type:varchar(36);primaryKey"`
	Sequence    int64           `gorm:"autoIncrement;index"`
	ProductID   *string         `gorm:"type:varchar(36);index"`
	Product     *Product        `gorm:"foreignKey:ProductID;constraint:OnDelete:SET NULL"`
	ProductSKU  string          `gorm:"column:product_sku;type:varchar(100)"`
	ProductName string          `gorm:"type:varchar(255)"`
	Type        TransactionType `gorm:"type:varchar(20);not null"`
	Quantity    int             `gorm:"not null"`
	Reason      string          `gorm:"type:varchar(255)"`
	Notes       string          `gorm:"type:text"`
	CreatedAt   time.Time       `gorm:"index"`
}

func (t *Transaction) TableName() string {
	return "transactions"
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// TransactionInput is what a client submits to record a movement.
type TransactionInput struct {
	ProductID string
	Type      TransactionType
	Quantity  int
	Reason    string
	Notes     string
}

// TransactionFilter narrows ListTransactions. Zero values mean no filter and
// no limit.
type TransactionFilter struct {
	ProductID string
	Limit     int
}

// TransactionsSummary counts recorded movements by type.
type TransactionsSummary struct {
	TotalEntries      int64
	TotalExits        int64
	TotalTransactions int64
}

// AutoMigrate creates or updates the schema for every model.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&Category{}, &Product{}, &Inventory{}, &Transaction{})
}
