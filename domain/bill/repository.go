package bill

import (
	"context"
	"time"
)

// ListFilter narrows a bill listing. Exactly one of UserID (buyer view) or
// StoreID (seller view) must be set. StatusPattern is matched
// case-insensitively as a substring of the stored status, which lets one
// query cover several statuses sharing a token. Search, when present,
// matches the store name or any contained product name case-insensitively.
type ListFilter struct {
	UserID        string
	StoreID       string
	Page          int // 1-indexed
	Limit         int
	Search        string
	StatusPattern string
}

// MonthRevenue is one month's summed revenue inside a calendar year.
type MonthRevenue struct {
	Month   int   `json:"month"` // 1..12
	Revenue int64 `json:"revenue"`
}

// Repository Bill persistence and query surface.
//
// Implementations translate driver-level faults into ErrStorage at this
// boundary; callers only ever see domain errors. Bills are never physically
// deleted, the status history is the audit trail.
type Repository interface {
	// NextIdentity generates a new bill ID.
	NextIdentity() string

	// Save persists a new bill.
	Save(ctx context.Context, b *Bill) error

	// FindByID loads one bill, ErrBillNotFound when absent.
	FindByID(ctx context.Context, id string) (*Bill, error)

	// UpdateStatus persists a new status, reporting false when no bill
	// matched. It does not validate the transition; that is the lifecycle
	// service's job.
	UpdateStatus(ctx context.Context, id string, status Status) (bool, error)

	// List returns the total match count and one page of bills, newest
	// first for stable pagination.
	List(ctx context.Context, filter ListFilter) (int64, []*Bill, error)

	// CountByStatus counts a store's bills with exactly the given status,
	// restricted to a calendar year when year > 0.
	CountByStatus(ctx context.Context, storeID string, status Status, year int) (int64, error)

	// SumRevenue sums totalPrice over all of a store's bills, 0 if none.
	SumRevenue(ctx context.Context, storeID string) (int64, error)

	// MonthlyRevenue sums totalPrice per calendar month of createdAt within
	// the given year. Only months with bills appear in the result.
	MonthlyRevenue(ctx context.Context, storeID string, year int) ([]MonthRevenue, error)

	// FindPlacedInRange returns a store's PLACED bills with createdAt in
	// [start, end]. A non-empty productType keeps only bills containing at
	// least one line item of that type (case-insensitive).
	FindPlacedInRange(ctx context.Context, storeID string, start, end time.Time, productType string) ([]*Bill, error)
}
