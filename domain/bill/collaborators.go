package bill

import "context"

// External collaborators. The lifecycle service only needs these narrow
// views of identity, catalog and wallet; the real services live elsewhere.

// User is the identity snapshot the lifecycle service needs.
type User struct {
	ID   string
	Name string
}

// Store is the store directory snapshot.
type Store struct {
	ID     string
	UserID string // owning seller
	Name   string
}

// Product is the catalog snapshot taken at order-creation time.
type Product struct {
	ID      string
	StoreID string
	Name    string
	Price   int64
	Type    string
}

// WalletLedger mutates the per-user running balance. Amounts are always
// non-negative; direction is encoded by which method is called. Both
// operations are atomic on the ledger side, the core never reads the
// balance back.
type WalletLedger interface {
	Credit(ctx context.Context, userID string, amount int64) error
	Debit(ctx context.Context, userID string, amount int64) error
}

// UserDirectory resolves a user id, ErrUserNotFound when absent.
type UserDirectory interface {
	GetUser(ctx context.Context, userID string) (*User, error)
}

// StoreDirectory resolves stores by id or by owning seller,
// ErrStoreNotFound when absent.
type StoreDirectory interface {
	GetStore(ctx context.Context, storeID string) (*Store, error)
	GetStoreByUserID(ctx context.Context, userID string) (*Store, error)
}

// ProductCatalog resolves a product id, ErrProductNotFound when absent.
type ProductCatalog interface {
	GetProduct(ctx context.Context, productID string) (*Product, error)
}
