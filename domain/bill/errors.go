package bill

import (
	"errors"
	"fmt"
)

// Sentinel errors for the bill domain. Callers branch with errors.Is; the
// constructors below attach context while keeping the sentinel in the chain.
var (
	// ErrBillNotFound the bill does not exist
	ErrBillNotFound = errors.New("bill not found")

	// ErrUserNotFound the acting user does not exist
	ErrUserNotFound = errors.New("user not found")

	// ErrStoreNotFound the seller has no store
	ErrStoreNotFound = errors.New("store not found")

	// ErrProductNotFound a cart line references a missing product
	ErrProductNotFound = errors.New("product not found")

	// ErrUnknownStatus the supplied status is outside the enumerated set
	ErrUnknownStatus = errors.New("unknown bill status")

	// ErrInvalidStateTransition the source→target edge is not allowed
	ErrInvalidStateTransition = errors.New("invalid bill state transition")

	// ErrEmptyItems a bill must carry at least one line item
	ErrEmptyItems = errors.New("bill must have at least one item")

	// ErrInvalidQuantity line item quantity must be positive
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidPrice line item price must not be negative
	ErrInvalidPrice = errors.New("price must not be negative")

	// ErrPromotionExceedsTotal promotion value is larger than the item total
	ErrPromotionExceedsTotal = errors.New("promotion value exceeds item total")

	// ErrMixedStores cart lines of one bill belong to different stores
	ErrMixedStores = errors.New("bill items must belong to one store")

	// ErrStorage opaque persistence fault. Driver detail is wrapped here at
	// the store boundary and never leaks past it.
	ErrStorage = errors.New("storage failure")
)

// NewBillNotFoundError reports a missing bill by id.
func NewBillNotFoundError(billID string) error {
	return fmt.Errorf("%w: %s", ErrBillNotFound, billID)
}

// NewUserNotFoundError reports a missing user by id.
func NewUserNotFoundError(userID string) error {
	return fmt.Errorf("%w: %s", ErrUserNotFound, userID)
}

// NewStoreNotFoundError reports a missing store by id or owner.
func NewStoreNotFoundError(ref string) error {
	return fmt.Errorf("%w: %s", ErrStoreNotFound, ref)
}

// NewProductNotFoundError reports a missing product by id.
func NewProductNotFoundError(productID string) error {
	return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
}

// NewUnknownStatusError reports a status string outside the enumerated set.
func NewUnknownStatusError(raw string) error {
	return fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// NewInvalidStateTransitionError reports a forbidden source→target edge.
func NewInvalidStateTransitionError(from, to Status) error {
	return fmt.Errorf("%w: cannot transition from %s to %s", ErrInvalidStateTransition, from, to)
}

// NewStorageError wraps a driver-level fault into the opaque storage
// sentinel. The original error stays in the chain for logging only.
func NewStorageError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStorage, err)
}
