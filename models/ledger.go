package models

import (
	"fmt"
	"math"
	"strings"
)

// MaxStockQuantity bounds both a single movement and the stock of a product.
const MaxStockQuantity = 1_000_000_000

// TransactionType is the direction of a stock movement.
type TransactionType string

const (
	TransactionEntry TransactionType = "ENTRY"
	TransactionExit  TransactionType = "EXIT"
)

func (t TransactionType) Valid() bool {
	return t == TransactionEntry || t == TransactionExit
}

// OverdrawPolicy decides what happens when an EXIT asks for more than is on hand.
type OverdrawPolicy string

const (
	// OverdrawClamp records the EXIT and floors the quantity at zero.
	OverdrawClamp OverdrawPolicy = "clamp"
	// OverdrawReject refuses the EXIT with ErrInsufficientStock.
	OverdrawReject OverdrawPolicy = "reject"
)

// ParseOverdrawPolicy accepts "clamp" or "reject", case-insensitively.
// An empty string selects OverdrawClamp.
func ParseOverdrawPolicy(s string) (OverdrawPolicy, error) {
	switch OverdrawPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", OverdrawClamp:
		return OverdrawClamp, nil
	case OverdrawReject:
		return OverdrawReject, nil
	}
	return "", fmt.Errorf("unknown overdraw policy %q", s)
}

// ValidateMovement checks the parts of a movement that do not need storage.
func ValidateMovement(t TransactionType, quantity int) error {
	if !t.Valid() {
		return ErrInvalidTransactionType
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > MaxStockQuantity {
		return ErrQuantityTooLarge
	}
	return nil
}

// ApplyDelta returns the quantity that results from applying one movement to
// current. The result is never negative and an ENTRY never takes it above
// MaxStockQuantity, whatever the policy.
func ApplyDelta(current int, t TransactionType, quantity int, policy OverdrawPolicy) (int, error) {
	if err := ValidateMovement(t, quantity); err != nil {
		return current, err
	}

	if t == TransactionEntry {
		if quantity > MaxStockQuantity-current {
			return current, fmt.Errorf("%w: available %d, received %d", ErrStockLimitExceeded, current, quantity)
		}
		return current + quantity, nil
	}

	next := current - quantity
	if next < 0 {
		if policy == OverdrawReject {
			return current, fmt.Errorf("%w: available %d, requested %d", ErrInsufficientStock, current, quantity)
		}
		next = 0
	}
	return next, nil
}

// ReplayQuantity folds transactions, in the order given, starting from zero
// and clamping at every step. Rejected overdraws are never stored, so the
// clamp fold matches the live quantity under either policy.
func ReplayQuantity(txs []Transaction) (int, error) {
	quantity := 0
	for _, tx := range txs {
		next, err := ApplyDelta(quantity, tx.Type, tx.Quantity, OverdrawClamp)
		if err != nil {
			return 0, fmt.Errorf("replay transaction %s: %w", tx.ID, err)
		}
		quantity = next
	}
	return quantity, nil
}

// Reconciliation compares the live inventory of a product with the quantity
// replayed from its transaction log.
type Reconciliation struct {
	ProductID        string
	ProductSKU       string
	LedgerQuantity   int
	ReplayedQuantity int
	TransactionCount int
}

func (r Reconciliation) InSync() bool {
	return r.LedgerQuantity == r.ReplayedQuantity
}

// addQuantity sums non-negative quantities, saturating at math.MaxInt.
func addQuantity(total, qty int) int {
	if qty > math.MaxInt-total {
		return math.MaxInt
	}
	return total + qty
}
