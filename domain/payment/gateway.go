/*
Package payment Payment settlement for bills.

A Gateway implements one provider protocol; the Registry maps a bill's
payment method to its gateway and drives the call with a per-call timeout.
Settlement outcomes are values, not errors: a missing gateway or a provider
decline is a distinguished SettlementResult so the lifecycle service can
degrade gracefully (a declined settlement never rolls back the bill).
*/
package payment

import (
	"context"

	"marketbill/domain/bill"
)

// SettlementStatus classifies the outcome of one settlement attempt.
type SettlementStatus string

const (
	// SettlementApproved the provider accepted the payment
	SettlementApproved SettlementStatus = "APPROVED"

	// SettlementDeclined the provider rejected the payment
	SettlementDeclined SettlementStatus = "DECLINED"

	// SettlementRedirect the buyer must complete payment at RedirectURL
	SettlementRedirect SettlementStatus = "REDIRECT"

	// SettlementGatewayNotFound no gateway registered for the method;
	// callers may fall back to cash on delivery
	SettlementGatewayNotFound SettlementStatus = "GATEWAY_NOT_FOUND"

	// SettlementTimeout the provider did not answer within the deadline
	SettlementTimeout SettlementStatus = "TIMEOUT"
)

// SettlementResult is the value returned from routing one bill through a
// gateway.
type SettlementResult struct {
	Status      SettlementStatus   `json:"status"`
	Method      bill.PaymentMethod `json:"method"`
	Reference   string             `json:"reference,omitempty"` // provider transaction reference
	RedirectURL string             `json:"redirect_url,omitempty"`
	Message     string             `json:"message"`
}

// Settled reports whether the attempt ended in an accepted or
// redirect-pending payment.
func (r SettlementResult) Settled() bool {
	return r.Status == SettlementApproved || r.Status == SettlementRedirect
}

// Gateway processes payment for one provider. Implementations own their
// retry policy; the registry never retries. Calls are network operations
// and must respect ctx.
type Gateway interface {
	Process(ctx context.Context, b *bill.Bill, method bill.PaymentMethod) SettlementResult
}
