package models

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CategoriesRepository struct {
	db *gorm.DB
}

// CategoryUpdate carries the fields to change; nil fields are left alone.
type CategoryUpdate struct {
	Name        *string
	Description *string
}

// CategoryWithCount is a category together with the number of its products.
type CategoryWithCount struct {
	Category
	ProductCount int64
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

func (r *CategoriesRepository) GetAllCategories(ctx context.Context) ([]CategoryWithCount, error) {
	var categories []CategoryWithCount
	err := r.db.WithContext(ctx).
		Model(&Category{}).
		Select("categories.*, (SELECT COUNT(*) FROM products WHERE products.category_id = categories.id) AS product_count").
		Order("categories.name").
		Scan(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoriesRepository) GetCategory(ctx context.Context, id string) (*CategoryWithCount, error) {
	var category Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	var count int64
	if err := r.db.WithContext(ctx).Model(&Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("count category products: %w", err)
	}
	return &CategoryWithCount{Category: category, ProductCount: count}, nil
}

func (r *CategoriesRepository) CreateCategory(ctx context.Context, category *Category) error {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return ErrNameRequired
	}
	if err := validateLength(category.Name, MaxNameLength, ErrNameTooLong); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureCategoryNameFree(tx, category.Name, ""); err != nil {
			return err
		}
		if err := tx.Create(category).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCategoryName
			}
			return fmt.Errorf("create category: %w", asValidationError(err))
		}
		return nil
	})
}

func (r *CategoriesRepository) UpdateCategory(ctx context.Context, id string, upd CategoryUpdate) (*Category, error) {
	var category Category
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("get category: %w", err)
		}

		if upd.Name != nil {
			name := strings.TrimSpace(*upd.Name)
			if name == "" {
				return ErrNameRequired
			}
			if err := validateLength(name, MaxNameLength, ErrNameTooLong); err != nil {
				return err
			}
			if err := ensureCategoryNameFree(tx, name, id); err != nil {
				return err
			}
			category.Name = name
		}
		if upd.Description != nil {
			category.Description = *upd.Description
		}

		if err := tx.Save(&category).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateCategoryName
			}
			return fmt.Errorf("update category: %w", asValidationError(err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &category, nil
}

// DeleteCategory removes an empty category. Categories that still own
// products are rejected with ErrCategoryNotEmpty. The category row is locked
// so a concurrent CreateProduct, which share-locks it, cannot slip a product in.
func (r *CategoriesRepository) DeleteCategory(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category Category
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("id = ?", id).First(&category).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCategoryNotFound
			}
			return fmt.Errorf("get category: %w", err)
		}

		var count int64
		if err := tx.Model(&Product{}).Where("category_id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("count category products: %w", err)
		}
		if count > 0 {
			return ErrCategoryNotEmpty
		}

		if err := tx.Delete(&category).Error; err != nil {
			if isForeignKeyViolation(err) {
				return ErrCategoryNotEmpty
			}
			return fmt.Errorf("delete category: %w", err)
		}
		return nil
	})
}

func ensureCategoryNameFree(tx *gorm.DB, name, exceptID string) error {
	q := tx.Model(&Category{}).Where("name = ?", name)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return fmt.Errorf("check category name: %w", err)
	}
	if count > 0 {
		return ErrDuplicateCategoryName
	}
	return nil
}
