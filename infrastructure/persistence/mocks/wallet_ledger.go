package mocks

import (
	"context"
	"sync"

	"marketbill/domain/bill"
)

// Movement records one wallet adjustment for assertions in tests.
type Movement struct {
	UserID string
	Amount int64 // positive for credit, negative for debit
}

// MockWalletLedger In-memory wallet ledger tracking per-user balances and
// the full movement history.
type MockWalletLedger struct {
	balances  map[string]int64
	movements []Movement
	mu        sync.Mutex
}

// NewMockWalletLedger Create an empty in-memory wallet ledger.
func NewMockWalletLedger() *MockWalletLedger {
	return &MockWalletLedger{
		balances: make(map[string]int64),
	}
}

func (l *MockWalletLedger) Credit(ctx context.Context, userID string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[userID] += amount
	l.movements = append(l.movements, Movement{UserID: userID, Amount: amount})
	return nil
}

func (l *MockWalletLedger) Debit(ctx context.Context, userID string, amount int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.balances[userID] -= amount
	l.movements = append(l.movements, Movement{UserID: userID, Amount: -amount})
	return nil
}

// Balance returns the current balance for a user, 0 when never touched.
func (l *MockWalletLedger) Balance(userID string) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[userID]
}

// Movements returns a copy of the recorded movement history.
func (l *MockWalletLedger) Movements() []Movement {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Movement, len(l.movements))
	copy(out, l.movements)
	return out
}

var _ bill.WalletLedger = (*MockWalletLedger)(nil)
