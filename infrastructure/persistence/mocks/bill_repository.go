/*
Package mocks In-memory implementations of the bill repository and its
collaborators. They back the `database.type: mock` bootstrap mode for local
development and double as test fixtures for the application and API layers.
*/
package mocks

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"marketbill/domain/bill"

	"github.com/google/uuid"
)

// MockBillRepository In-memory bill repository. Query semantics mirror the
// MySQL implementation: case-insensitive substring status matching, search
// over store name and product names, newest-first pagination.
type MockBillRepository struct {
	bills map[string]*bill.Bill
	mu    sync.RWMutex
}

// NewMockBillRepository Create an empty in-memory bill repository.
func NewMockBillRepository() *MockBillRepository {
	return &MockBillRepository{
		bills: make(map[string]*bill.Bill),
	}
}

// clone deep-copies a bill so callers never alias repository state.
func clone(b *bill.Bill) *bill.Bill {
	return bill.Rebuild(bill.ReconstructionDTO{
		ID:             b.ID(),
		UserID:         b.UserID(),
		StoreID:        b.StoreID(),
		StoreName:      b.StoreName(),
		Items:          b.Items(),
		TotalPrice:     b.TotalPrice(),
		PromotionValue: b.PromotionValue(),
		DeliveryFee:    b.DeliveryFee(),
		DeliveryMethod: b.DeliveryMethod(),
		PaymentMethod:  b.PaymentMethod(),
		Receiver:       b.Receiver(),
		Give:           b.Give(),
		Status:         b.Status(),
		IsPaid:         b.IsPaid(),
		CreatedAt:      b.CreatedAt(),
		UpdatedAt:      b.UpdatedAt(),
	})
}

// NextIdentity Generate a new bill ID.
func (r *MockBillRepository) NextIdentity() string {
	return "bill-" + uuid.New().String()
}

func (r *MockBillRepository) Save(ctx context.Context, b *bill.Bill) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bills[b.ID()] = clone(b)
	return nil
}

func (r *MockBillRepository) FindByID(ctx context.Context, id string) (*bill.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, exists := r.bills[id]
	if !exists {
		return nil, bill.NewBillNotFoundError(id)
	}
	return clone(b), nil
}

func (r *MockBillRepository) UpdateStatus(ctx context.Context, id string, status bill.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, exists := r.bills[id]
	if !exists {
		return false, nil
	}

	// Like the UPDATE statement this mirrors, the write is unconditional;
	// transition validation happened upstream.
	r.bills[id] = bill.Rebuild(bill.ReconstructionDTO{
		ID:             b.ID(),
		UserID:         b.UserID(),
		StoreID:        b.StoreID(),
		StoreName:      b.StoreName(),
		Items:          b.Items(),
		TotalPrice:     b.TotalPrice(),
		PromotionValue: b.PromotionValue(),
		DeliveryFee:    b.DeliveryFee(),
		DeliveryMethod: b.DeliveryMethod(),
		PaymentMethod:  b.PaymentMethod(),
		Receiver:       b.Receiver(),
		Give:           b.Give(),
		Status:         status,
		IsPaid:         b.IsPaid(),
		CreatedAt:      b.CreatedAt(),
		UpdatedAt:      time.Now(),
	})
	return true, nil
}

func matchesSearch(b *bill.Bill, search string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	if strings.Contains(strings.ToLower(b.StoreName()), needle) {
		return true
	}
	for _, item := range b.Items() {
		if strings.Contains(strings.ToLower(item.ProductName()), needle) {
			return true
		}
	}
	return false
}

func matchesStatusPattern(b *bill.Bill, pattern string) bool {
	if pattern == "" {
		return true
	}
	return strings.Contains(strings.ToLower(string(b.Status())), strings.ToLower(pattern))
}

func (r *MockBillRepository) List(ctx context.Context, filter bill.ListFilter) (int64, []*bill.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*bill.Bill
	for _, b := range r.bills {
		if filter.UserID != "" && b.UserID() != filter.UserID {
			continue
		}
		if filter.StoreID != "" && b.StoreID() != filter.StoreID {
			continue
		}
		if !matchesStatusPattern(b, filter.StatusPattern) {
			continue
		}
		if !matchesSearch(b, filter.Search) {
			continue
		}
		matched = append(matched, b)
	}

	// Newest first, ID as tiebreaker for a stable order.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt().Equal(matched[j].CreatedAt()) {
			return matched[i].CreatedAt().After(matched[j].CreatedAt())
		}
		return matched[i].ID() > matched[j].ID()
	})

	total := int64(len(matched))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = len(matched)
	}

	offset := (page - 1) * limit
	if offset >= len(matched) {
		return total, []*bill.Bill{}, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}

	pageItems := make([]*bill.Bill, 0, end-offset)
	for _, b := range matched[offset:end] {
		pageItems = append(pageItems, clone(b))
	}
	return total, pageItems, nil
}

func (r *MockBillRepository) CountByStatus(ctx context.Context, storeID string, status bill.Status, year int) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, b := range r.bills {
		if b.StoreID() != storeID || b.Status() != status {
			continue
		}
		if year > 0 && b.CreatedAt().Year() != year {
			continue
		}
		count++
	}
	return count, nil
}

func (r *MockBillRepository) SumRevenue(ctx context.Context, storeID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var total int64
	for _, b := range r.bills {
		if b.StoreID() == storeID {
			total += b.TotalPrice()
		}
	}
	return total, nil
}

func (r *MockBillRepository) MonthlyRevenue(ctx context.Context, storeID string, year int) ([]bill.MonthRevenue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	byMonth := make(map[int]int64)
	for _, b := range r.bills {
		if b.StoreID() != storeID || b.CreatedAt().Year() != year {
			continue
		}
		byMonth[int(b.CreatedAt().Month())] += b.TotalPrice()
	}

	rows := make([]bill.MonthRevenue, 0, len(byMonth))
	for month := 1; month <= 12; month++ {
		if revenue, ok := byMonth[month]; ok {
			rows = append(rows, bill.MonthRevenue{Month: month, Revenue: revenue})
		}
	}
	return rows, nil
}

func (r *MockBillRepository) FindPlacedInRange(ctx context.Context, storeID string, start, end time.Time, productType string) ([]*bill.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*bill.Bill
	for _, b := range r.bills {
		if b.StoreID() != storeID || b.Status() != bill.StatusPlaced {
			continue
		}
		created := b.CreatedAt()
		if created.Before(start) || created.After(end) {
			continue
		}
		if productType != "" && !b.ContainsProductType(productType) {
			continue
		}
		matched = append(matched, clone(b))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt().Before(matched[j].CreatedAt())
	})
	return matched, nil
}

var _ bill.Repository = (*MockBillRepository)(nil)
