package payment

import (
	"context"
	"testing"
	"time"

	"marketbill/domain/bill"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBill(t *testing.T) *bill.Bill {
	t.Helper()
	b, err := bill.NewBill(bill.CreateOptions{
		UserID:    "user-1",
		StoreID:   "store-1",
		StoreName: "Fresh Grocer",
		Items: []bill.ItemRequest{
			{ProductID: "prod-1", ProductName: "Arabica Beans 1kg", Quantity: 1, Price: 1500, ProductType: "coffee"},
		},
		PaymentMethod: bill.MethodMobileWallet,
	})
	require.NoError(t, err)
	return b
}

type slowGateway struct {
	delay time.Duration
}

func (g *slowGateway) Process(ctx context.Context, b *bill.Bill, method bill.PaymentMethod) SettlementResult {
	select {
	case <-time.After(g.delay):
		return SettlementResult{Status: SettlementApproved, Method: method}
	case <-ctx.Done():
		return SettlementResult{Status: SettlementDeclined, Method: method, Message: ctx.Err().Error()}
	}
}

func TestRegistryUnknownMethod(t *testing.T) {
	r := NewRegistry(time.Second)

	res := r.Process(context.Background(), testBill(t), bill.MethodBankTransfer)

	assert.Equal(t, SettlementGatewayNotFound, res.Status)
	assert.Equal(t, bill.MethodBankTransfer, res.Method)
	assert.False(t, res.Settled())
}

func TestRegistryRoutesByMethod(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register(bill.MethodMobileWallet, &MobileWalletGateway{})
	r.Register(bill.MethodBankTransfer, &BankTransferGateway{BaseURL: "https://pay.test"})
	r.Register(bill.MethodGift, &GiftGateway{})

	b := testBill(t)

	wallet := r.Process(context.Background(), b, bill.MethodMobileWallet)
	assert.Equal(t, SettlementApproved, wallet.Status)
	assert.NotEmpty(t, wallet.Reference)

	transfer := r.Process(context.Background(), b, bill.MethodBankTransfer)
	assert.Equal(t, SettlementRedirect, transfer.Status)
	assert.Contains(t, transfer.RedirectURL, "https://pay.test/checkout?bill="+b.ID())
	assert.True(t, transfer.Settled())

	gift := r.Process(context.Background(), b, bill.MethodGift)
	assert.Equal(t, SettlementApproved, gift.Status)
	assert.Empty(t, gift.Reference)
}

func TestRegistryLastRegistrationWins(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register(bill.MethodGift, &MobileWalletGateway{})
	r.Register(bill.MethodGift, &GiftGateway{})

	res := r.Process(context.Background(), testBill(t), bill.MethodGift)

	assert.Equal(t, SettlementApproved, res.Status)
	assert.Empty(t, res.Reference, "the gift gateway registered last must answer")
}

func TestRegistryTimeout(t *testing.T) {
	r := NewRegistry(20 * time.Millisecond)
	r.Register(bill.MethodMobileWallet, &slowGateway{delay: time.Second})

	start := time.Now()
	res := r.Process(context.Background(), testBill(t), bill.MethodMobileWallet)

	assert.Equal(t, SettlementTimeout, res.Status)
	assert.False(t, res.Settled())
	assert.Less(t, time.Since(start), 500*time.Millisecond, "caller must not wait for the slow gateway")
}

func TestRegistryFastGatewayBeatsTimeout(t *testing.T) {
	r := NewRegistry(time.Second)
	r.Register(bill.MethodMobileWallet, &slowGateway{delay: time.Millisecond})

	res := r.Process(context.Background(), testBill(t), bill.MethodMobileWallet)

	assert.Equal(t, SettlementApproved, res.Status)
}
