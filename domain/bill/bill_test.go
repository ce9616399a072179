package bill

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validOptions() CreateOptions {
	return CreateOptions{
		UserID:    "user-1",
		StoreID:   "store-1",
		StoreName: "Fresh Grocer",
		Items: []ItemRequest{
			{ProductID: "prod-1", ProductName: "Arabica Beans 1kg", Quantity: 2, Price: 30, ProductType: "coffee"},
			{ProductID: "prod-2", ProductName: "Ceramic Mug", Quantity: 1, Price: 10, ProductType: "kitchenware"},
		},
		PromotionValue: 5,
		DeliveryFee:    3,
		DeliveryMethod: "standard",
		PaymentMethod:  MethodMobileWallet,
		Receiver:       ReceiverInfo{Name: "Alice", Phone: "555-0100", Address: "1 Main St"},
	}
}

func TestTotalPrice(t *testing.T) {
	opts := validOptions()
	// 2*30 + 1*10 - 5
	assert.Equal(t, int64(65), TotalPrice(opts.Items, opts.PromotionValue))
	assert.Equal(t, int64(70), TotalPrice(opts.Items, 0))
	assert.Equal(t, int64(-1), TotalPrice(opts.Items, 71))
}

func TestNewBill(t *testing.T) {
	b, err := NewBill(validOptions())
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID())
	assert.Equal(t, "user-1", b.UserID())
	assert.Equal(t, "store-1", b.StoreID())
	assert.Equal(t, StatusPlaced, b.Status())
	assert.Equal(t, int64(65), b.TotalPrice())
	assert.True(t, b.IsPaid())
	assert.Len(t, b.Items(), 2)
	assert.WithinDuration(t, time.Now(), b.CreatedAt(), time.Second)
}

func TestNewBillValidation(t *testing.T) {
	t.Run("empty items", func(t *testing.T) {
		opts := validOptions()
		opts.Items = nil
		_, err := NewBill(opts)
		assert.ErrorIs(t, err, ErrEmptyItems)
	})

	t.Run("missing user", func(t *testing.T) {
		opts := validOptions()
		opts.UserID = ""
		_, err := NewBill(opts)
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("zero quantity", func(t *testing.T) {
		opts := validOptions()
		opts.Items[0].Quantity = 0
		_, err := NewBill(opts)
		assert.ErrorIs(t, err, ErrInvalidQuantity)
	})

	t.Run("negative price", func(t *testing.T) {
		opts := validOptions()
		opts.Items[1].Price = -1
		_, err := NewBill(opts)
		assert.ErrorIs(t, err, ErrInvalidPrice)
	})

	t.Run("promotion exceeds total", func(t *testing.T) {
		opts := validOptions()
		opts.PromotionValue = 1000
		_, err := NewBill(opts)
		assert.ErrorIs(t, err, ErrPromotionExceedsTotal)
	})
}

func TestNewBillPaidFlag(t *testing.T) {
	opts := validOptions()
	opts.PaymentMethod = MethodCash
	b, err := NewBill(opts)
	require.NoError(t, err)
	assert.False(t, b.IsPaid(), "cash on delivery starts unpaid")

	for _, method := range []PaymentMethod{MethodBankTransfer, MethodMobileWallet, MethodGift} {
		opts.PaymentMethod = method
		b, err = NewBill(opts)
		require.NoError(t, err)
		assert.True(t, b.IsPaid(), "method %s should start paid", method)
	}
}

func TestTransitionTo(t *testing.T) {
	b, err := NewBill(validOptions())
	require.NoError(t, err)

	require.NoError(t, b.TransitionTo(StatusConfirmed))
	assert.Equal(t, StatusConfirmed, b.Status())

	require.NoError(t, b.TransitionTo(StatusDelivering))
	require.NoError(t, b.TransitionTo(StatusDelivered))

	err = b.TransitionTo(StatusConfirmed)
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
	assert.Equal(t, StatusDelivered, b.Status(), "failed transition must not change status")
}

func TestContainsProductType(t *testing.T) {
	b, err := NewBill(validOptions())
	require.NoError(t, err)

	assert.True(t, b.ContainsProductType("coffee"))
	assert.True(t, b.ContainsProductType("COFFEE"))
	assert.True(t, b.ContainsProductType("kitchenware"))
	assert.False(t, b.ContainsProductType("electronics"))
}

func TestRebuild(t *testing.T) {
	created := time.Date(2023, 1, 15, 10, 0, 0, 0, time.UTC)
	b := Rebuild(ReconstructionDTO{
		ID:         "bill-1",
		UserID:     "user-1",
		StoreID:    "store-1",
		StoreName:  "Fresh Grocer",
		Items:      []Item{RebuildItem("prod-1", "Arabica Beans 1kg", 2, 30, "coffee")},
		TotalPrice: 60,
		Status:     StatusDelivering,
		IsPaid:     true,
		CreatedAt:  created,
		UpdatedAt:  created,
	})

	assert.Equal(t, "bill-1", b.ID())
	assert.Equal(t, StatusDelivering, b.Status())
	assert.Equal(t, int64(60), b.TotalPrice())
	assert.Equal(t, created, b.CreatedAt())
	require.Len(t, b.Items(), 1)
	assert.Equal(t, "coffee", b.Items()[0].ProductType())
}
