package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ProductInput holds the fields needed to create a product.
type ProductInput struct {
	Name        string
	Description string
	SKU         string
	Price       decimal.Decimal
	CategoryID  string
}

// ProductUpdate carries the fields to change; nil fields are left alone.
// The SKU cannot be changed.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *decimal.Decimal
	CategoryID  *string
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetAllProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Inventory").
		Order("products.created_at, products.id").
		Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *ProductsRepository) GetProduct(ctx context.Context, id string) (*Product, error) {
	return loadProduct(r.db.WithContext(ctx), id)
}

// CreateProduct stores the product and its zero-quantity inventory in one
// database transaction. Either both rows exist afterwards or neither does.
func (r *ProductsRepository) CreateProduct(ctx context.Context, in ProductInput) (*Product, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	switch {
	case in.Name == "":
		return nil, ErrNameRequired
	case in.SKU == "":
		return nil, ErrSKURequired
	case in.CategoryID == "":
		return nil, ErrCategoryIDRequired
	}
	if err := validateLength(in.Name, MaxNameLength, ErrNameTooLong); err != nil {
		return nil, err
	}
	if err := validateLength(in.SKU, MaxSKULength, ErrSKUTooLong); err != nil {
		return nil, err
	}
	if err := ValidatePrice(in.Price); err != nil {
		return nil, err
	}

	var created *Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockCategoryShared(tx, in.CategoryID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&Product{}).Where("sku = ?", in.SKU).Count(&count).Error; err != nil {
			return fmt.Errorf("check sku: %w", err)
		}
		if count > 0 {
			return ErrDuplicateSKU
		}

		product := Product{
			Name:        in.Name,
			Description: in.Description,
			SKU:         in.SKU,
			Price:       in.Price,
			CategoryID:  in.CategoryID,
		}
		if err := tx.Omit(clause.Associations).Create(&product).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateSKU
			}
			return fmt.Errorf("create product: %w", asValidationError(err))
		}

		inventory := Inventory{ProductID: product.ID, Quantity: 0}
		if err := tx.Create(&inventory).Error; err != nil {
			return fmt.Errorf("create inventory: %w", err)
		}

		p, err := loadProduct(tx, product.ID)
		if err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *ProductsRepository) UpdateProduct(ctx context.Context, id string, upd ProductUpdate) (*Product, error) {
	var updated *Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product Product
		if err := tx.Where("id = ?", id).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("get product: %w", err)
		}

		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return ErrNameRequired
			}
			if err := validateLength(name, MaxNameLength, ErrNameTooLong); err != nil {
				return err
			}
			product.Name = name
		}
		if upd.Description != nil {
			product.Description = *upd.Description
		}
		if upd.Price != nil {
			if err := ValidatePrice(*upd.Price); err != nil {
				return err
			}
			product.Price = *upd.Price
		}
		if upd.CategoryID != nil && *upd.CategoryID != product.CategoryID {
			if err := lockCategoryShared(tx, *upd.CategoryID); err != nil {
				return err
			}
			product.CategoryID = *upd.CategoryID
		}

		if err := tx.Omit(clause.Associations).Save(&product).Error; err != nil {
			return fmt.Errorf("update product: %w", asValidationError(err))
		}

		p, err := loadProduct(tx, id)
		if err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProduct removes the product and its inventory. Its transactions are
// kept: their product reference is cleared and their SKU/name snapshot stays.
func (r *ProductsRepository) DeleteProduct(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&product).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("get product: %w", err)
		}

		if err := tx.Model(&Transaction{}).Where("product_id = ?", id).Update("product_id", nil).Error; err != nil {
			return fmt.Errorf("detach transactions: %w", err)
		}
		if err := tx.Where("product_id = ?", id).Delete(&Inventory{}).Error; err != nil {
			return fmt.Errorf("delete inventory: %w", err)
		}
		if err := tx.Delete(&product).Error; err != nil {
			return fmt.Errorf("delete product: %w", err)
		}
		return nil
	})
}

func loadProduct(db *gorm.DB, id string) (*Product, error) {
	var product Product
	if err := db.
		Preload("Category").
		Preload("Inventory").
		Where("id = ?", id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return &product, nil
}

// lockCategoryShared checks the category exists and holds a share lock on it
// until the surrounding transaction ends.
func lockCategoryShared(tx *gorm.DB, categoryID string) error {
	var category Category
	if err := tx.Clauses(clause.Locking{Strength: "SHARE"}).Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("get category: %w", err)
	}
	return nil
}
