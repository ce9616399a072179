package payment

import (
	"context"
	"fmt"

	"marketbill/domain/bill"

	"github.com/google/uuid"
)

// BankTransferGateway simulates a bank-transfer provider: the buyer is
// redirected to the provider's payment page to complete the transfer.
type BankTransferGateway struct {
	BaseURL string
}

func (g *BankTransferGateway) Process(ctx context.Context, b *bill.Bill, method bill.PaymentMethod) SettlementResult {
	if err := ctx.Err(); err != nil {
		return SettlementResult{Status: SettlementDeclined, Method: method, Message: err.Error()}
	}
	base := g.BaseURL
	if base == "" {
		base = "https://pay.bank.example"
	}
	return SettlementResult{
		Status:      SettlementRedirect,
		Method:      method,
		Reference:   uuid.New().String(),
		RedirectURL: fmt.Sprintf("%s/checkout?bill=%s&amount=%d", base, b.ID(), b.TotalPrice()),
		Message:     "redirect buyer to complete bank transfer",
	}
}

// MobileWalletGateway simulates a mobile-wallet provider that settles
// in-band and answers with a transaction reference.
type MobileWalletGateway struct{}

func (g *MobileWalletGateway) Process(ctx context.Context, b *bill.Bill, method bill.PaymentMethod) SettlementResult {
	if err := ctx.Err(); err != nil {
		return SettlementResult{Status: SettlementDeclined, Method: method, Message: err.Error()}
	}
	return SettlementResult{
		Status:    SettlementApproved,
		Method:    method,
		Reference: uuid.New().String(),
		Message:   "wallet charge accepted",
	}
}

// GiftGateway is the no-op gateway for gifted and pay-on-delivery orders:
// there is nothing to settle at creation time.
type GiftGateway struct{}

func (g *GiftGateway) Process(_ context.Context, _ *bill.Bill, method bill.PaymentMethod) SettlementResult {
	return SettlementResult{
		Status:  SettlementApproved,
		Method:  method,
		Message: "no settlement required",
	}
}
