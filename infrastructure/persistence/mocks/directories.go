package mocks

import (
	"context"
	"sync"

	"marketbill/domain/bill"
)

// MockUserDirectory In-memory user directory.
type MockUserDirectory struct {
	users map[string]*bill.User
	mu    sync.RWMutex
}

// NewMockUserDirectory Create a user directory seeded with test users.
func NewMockUserDirectory() *MockUserDirectory {
	d := &MockUserDirectory{users: make(map[string]*bill.User)}
	d.AddUser(&bill.User{ID: "user-1", Name: "Alice Buyer"})
	d.AddUser(&bill.User{ID: "user-2", Name: "Bob Seller"})
	return d
}

// AddUser registers a user snapshot.
func (d *MockUserDirectory) AddUser(u *bill.User) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[u.ID] = u
}

func (d *MockUserDirectory) GetUser(ctx context.Context, userID string) (*bill.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	u, exists := d.users[userID]
	if !exists {
		return nil, bill.NewUserNotFoundError(userID)
	}
	copied := *u
	return &copied, nil
}

// MockStoreDirectory In-memory store directory with a by-owner index.
type MockStoreDirectory struct {
	stores  map[string]*bill.Store
	byOwner map[string]*bill.Store
	mu      sync.RWMutex
}

// NewMockStoreDirectory Create a store directory seeded with a test store.
func NewMockStoreDirectory() *MockStoreDirectory {
	d := &MockStoreDirectory{
		stores:  make(map[string]*bill.Store),
		byOwner: make(map[string]*bill.Store),
	}
	d.AddStore(&bill.Store{ID: "store-1", UserID: "user-2", Name: "Fresh Grocer"})
	return d
}

// AddStore registers a store snapshot.
func (d *MockStoreDirectory) AddStore(s *bill.Store) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stores[s.ID] = s
	d.byOwner[s.UserID] = s
}

func (d *MockStoreDirectory) GetStore(ctx context.Context, storeID string) (*bill.Store, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, exists := d.stores[storeID]
	if !exists {
		return nil, bill.NewStoreNotFoundError(storeID)
	}
	copied := *s
	return &copied, nil
}

func (d *MockStoreDirectory) GetStoreByUserID(ctx context.Context, userID string) (*bill.Store, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	s, exists := d.byOwner[userID]
	if !exists {
		return nil, bill.NewStoreNotFoundError("owner:" + userID)
	}
	copied := *s
	return &copied, nil
}

// MockProductCatalog In-memory product catalog.
type MockProductCatalog struct {
	products map[string]*bill.Product
	mu       sync.RWMutex
}

// NewMockProductCatalog Create a catalog seeded with test products.
func NewMockProductCatalog() *MockProductCatalog {
	c := &MockProductCatalog{products: make(map[string]*bill.Product)}
	c.AddProduct(&bill.Product{ID: "prod-1", StoreID: "store-1", Name: "Arabica Beans 1kg", Price: 1500, Type: "coffee"})
	c.AddProduct(&bill.Product{ID: "prod-2", StoreID: "store-1", Name: "Ceramic Mug", Price: 800, Type: "kitchenware"})
	c.AddProduct(&bill.Product{ID: "prod-3", StoreID: "store-1", Name: "Robusta Beans 500g", Price: 600, Type: "coffee"})
	return c
}

// AddProduct registers a product snapshot.
func (c *MockProductCatalog) AddProduct(p *bill.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products[p.ID] = p
}

func (c *MockProductCatalog) GetProduct(ctx context.Context, productID string) (*bill.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	p, exists := c.products[productID]
	if !exists {
		return nil, bill.NewProductNotFoundError(productID)
	}
	copied := *p
	return &copied, nil
}

var (
	_ bill.UserDirectory  = (*MockUserDirectory)(nil)
	_ bill.StoreDirectory = (*MockStoreDirectory)(nil)
	_ bill.ProductCatalog = (*MockProductCatalog)(nil)
)
