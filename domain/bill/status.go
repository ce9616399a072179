package bill

import "strings"

// StatusEnum is the full lifecycle vocabulary as a single hyphen-joined
// constant. Splitting it yields the fixed, ordered status set used by the
// seller-side count endpoint.
const StatusEnum = "PLACED-CONFIRMED-DELIVERING-DELIVERED-CANCELLED-REFUNDED"

// Status Bill lifecycle status
type Status string

const (
	StatusPlaced     Status = "PLACED"     // Order placed by buyer
	StatusConfirmed  Status = "CONFIRMED"  // Confirmed by seller
	StatusDelivering Status = "DELIVERING" // Handed to delivery
	StatusDelivered  Status = "DELIVERED"  // Delivered to receiver
	StatusCancelled  Status = "CANCELLED"  // Cancelled by buyer or seller
	StatusRefunded   Status = "REFUNDED"   // Refunded with compensation
)

// AllStatuses returns the enumerated status set in declaration order.
func AllStatuses() []Status {
	parts := strings.Split(StatusEnum, "-")
	statuses := make([]Status, len(parts))
	for i, p := range parts {
		statuses[i] = Status(p)
	}
	return statuses
}

// ParseStatus validates a caller-supplied status string against the
// enumerated set. Unknown strings are invalid input.
func ParseStatus(s string) (Status, error) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range AllStatuses() {
		if candidate == known {
			return known, nil
		}
	}
	return "", NewUnknownStatusError(s)
}

// allowedTransitions is the explicit source→target relation for the forward
// shipping chain and the refund edge. Backward and self edges are rejected.
// CANCELLED is handled separately in CanTransitionTo: a cancellation must
// land regardless of the bill's prior status.
var allowedTransitions = map[Status][]Status{
	StatusPlaced:     {StatusConfirmed, StatusDelivering, StatusDelivered, StatusRefunded},
	StatusConfirmed:  {StatusDelivering, StatusDelivered, StatusRefunded},
	StatusDelivering: {StatusDelivered, StatusRefunded},
	StatusDelivered:  {StatusRefunded},
	StatusCancelled:  {StatusRefunded},
	StatusRefunded:   {},
}

// CanTransitionTo reports whether the target status is a legal next state.
func (s Status) CanTransitionTo(target Status) bool {
	if target == StatusCancelled {
		return true
	}
	for _, allowed := range allowedTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// WalletDirection selects which ledger operation an adjustment uses.
type WalletDirection int

const (
	WalletCredit WalletDirection = iota
	WalletDebit
)

// WalletAdjustment is one signed wallet movement keyed to a lifecycle
// transition. The amount moved is Multiplier times the bill's total price.
type WalletAdjustment struct {
	Direction  WalletDirection
	Multiplier int64
}

// walletRules maps a target status to the ordered wallet movements applied
// after the status is persisted. Placing a bill credits the tracked balance
// (the figure models funds owed to the platform, not buyer spend) and the
// rules below reverse or compensate it. The 5x refund credit is the
// storefront compensation rule, kept exactly as the business defines it.
var walletRules = map[Status][]WalletAdjustment{
	StatusCancelled: {
		{Direction: WalletDebit, Multiplier: 1},
	},
	StatusRefunded: {
		{Direction: WalletDebit, Multiplier: 1},
		{Direction: WalletCredit, Multiplier: 5},
	},
}

// WalletAdjustmentsFor returns the wallet movements for a transition into
// target, in application order. Most statuses have none.
func WalletAdjustmentsFor(target Status) []WalletAdjustment {
	rules := walletRules[target]
	out := make([]WalletAdjustment, len(rules))
	copy(out, rules)
	return out
}
