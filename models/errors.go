package models

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Error kinds. Every error returned by the repositories that is not a plain
// storage failure wraps exactly one of these, so callers can classify it with
// errors.Is.
var (
	ErrValidation          = errors.New("validation error")
	ErrNotFound            = errors.New("not found")
	ErrConstraint          = errors.New("constraint violation")
	ErrInternalConsistency = errors.New("internal consistency error")
)

var (
	ErrInvalidQuantity        = fmt.Errorf("%w: quantity must be greater than 0", ErrValidation)
	ErrInvalidTransactionType = fmt.Errorf("%w: invalid transaction type, use ENTRY or EXIT", ErrValidation)
	ErrProductIDRequired      = fmt.Errorf("%w: product id is required", ErrValidation)
	ErrNameRequired           = fmt.Errorf("%w: name is required", ErrValidation)
	ErrSKURequired            = fmt.Errorf("%w: sku is required", ErrValidation)
	ErrCategoryIDRequired     = fmt.Errorf("%w: category id is required", ErrValidation)
	ErrNegativePrice          = fmt.Errorf("%w: price cannot be negative", ErrValidation)
	ErrPriceTooLarge          = fmt.Errorf("%w: price must be below %s", ErrValidation, MaxPriceExclusive)
	ErrNameTooLong            = fmt.Errorf("%w: name must be at most %d characters", ErrValidation, MaxNameLength)
	ErrSKUTooLong             = fmt.Errorf("%w: sku must be at most %d characters", ErrValidation, MaxSKULength)
	ErrQuantityTooLarge       = fmt.Errorf("%w: quantity must be at most %d", ErrValidation, MaxStockQuantity)

	ErrProductNotFound     = fmt.Errorf("product %w", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)

	ErrDuplicateSKU          = fmt.Errorf("%w: product with this sku already exists", ErrConstraint)
	ErrDuplicateCategoryName = fmt.Errorf("%w: category name already exists", ErrConstraint)
	ErrCategoryNotEmpty      = fmt.Errorf("%w: category still has products", ErrConstraint)
	ErrInsufficientStock     = fmt.Errorf("%w: insufficient stock", ErrConstraint)
	ErrStockLimitExceeded    = fmt.Errorf("%w: stock would exceed %d units", ErrConstraint, MaxStockQuantity)

	ErrInventoryMissing = fmt.Errorf("%w: inventory record missing for product", ErrInternalConsistency)
)

// postgres error codes, see https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
	pqStringTooLong       = "22001"
	pqNumericOutOfRange   = "22003"
)

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == pqForeignKeyViolation
}

// asValidationError turns a value the column cannot hold into ErrValidation.
// Any other error is returned unchanged.
func asValidationError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && (pqErr.Code == pqStringTooLong || pqErr.Code == pqNumericOutOfRange) {
		return fmt.Errorf("%w: %s", ErrValidation, pqErr.Message)
	}
	return err
}
