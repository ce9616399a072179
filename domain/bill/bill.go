/*
Package bill Bill subdomain - the order aggregate of the marketplace.

A Bill captures one purchase transaction against one store: a snapshot of
the bought line items, the computed total, delivery and payment attributes,
and the lifecycle status. Everything except the status (and the paid flag for
cash-on-delivery settlement, out of scope here) is immutable after creation;
later catalog price changes never retroactively affect an existing bill.

All fields are private, behavior is exposed through methods, and the only
entry points are the NewBill factory and the repository-side Rebuild
functions.
*/
package bill

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod identifies the settlement channel chosen at creation time.
type PaymentMethod string

const (
	MethodCash         PaymentMethod = "CASH"          // Pay on delivery, settled outside this core
	MethodBankTransfer PaymentMethod = "BANK_TRANSFER" // Bank-transfer style gateway
	MethodMobileWallet PaymentMethod = "MOBILE_WALLET" // Mobile-wallet style gateway
	MethodGift         PaymentMethod = "GIFT"          // No-op gateway for gifted orders
)

// ReceiverInfo is the delivery contact captured on the bill.
type ReceiverInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// GiveInfo is optional gift metadata when the order is sent to someone else.
type GiveInfo struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Bill Order aggregate root. One bill belongs to exactly one buyer and one
// store; multi-store carts become multiple bills.
type Bill struct {
	id             string
	userID         string
	storeID        string
	storeName      string
	items          []Item
	totalPrice     int64
	promotionValue int64
	deliveryFee    int64
	deliveryMethod string
	paymentMethod  PaymentMethod
	receiverInfo   ReceiverInfo
	giveInfo       *GiveInfo
	status         Status
	isPaid         bool
	createdAt      time.Time
	updatedAt      time.Time
}

// Item is a line item inside the aggregate, a creation-time snapshot of the
// product. It has no identity outside its bill.
type Item struct {
	productID   string
	productName string
	quantity    int
	price       int64
	productType string
}

// ItemRequest carries the snapshot data for one line item at creation.
type ItemRequest struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       int64
	ProductType string
}

// CreateOptions carries everything needed to build a new bill.
type CreateOptions struct {
	UserID         string
	StoreID        string
	StoreName      string
	Items          []ItemRequest
	PromotionValue int64
	DeliveryFee    int64
	DeliveryMethod string
	PaymentMethod  PaymentMethod
	Receiver       ReceiverInfo
	Give           *GiveInfo
}

// TotalPrice computes sum(quantity*price) - promotion for a set of line item
// snapshots. The result may be negative; NewBill rejects that case.
func TotalPrice(items []ItemRequest, promotionValue int64) int64 {
	var total int64
	for _, item := range items {
		total += int64(item.Quantity) * item.Price
	}
	return total - promotionValue
}

// NewBill creates a bill in the PLACED state. It is the only way to create
// a bill and enforces every creation invariant: non-empty items, positive
// quantities, non-negative prices, and a non-negative total after promotion.
// isPaid starts false only for cash on delivery.
func NewBill(opts CreateOptions) (*Bill, error) {
	if opts.UserID == "" {
		return nil, NewUserNotFoundError(opts.UserID)
	}
	if len(opts.Items) == 0 {
		return nil, ErrEmptyItems
	}

	items := make([]Item, len(opts.Items))
	for i, req := range opts.Items {
		if req.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if req.Price < 0 {
			return nil, ErrInvalidPrice
		}
		items[i] = Item{
			productID:   req.ProductID,
			productName: req.ProductName,
			quantity:    req.Quantity,
			price:       req.Price,
			productType: req.ProductType,
		}
	}

	total := TotalPrice(opts.Items, opts.PromotionValue)
	if total < 0 {
		return nil, ErrPromotionExceedsTotal
	}

	billID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("failed to generate bill ID: %w", err)
	}

	now := time.Now()
	return &Bill{
		id:             billID.String(),
		userID:         opts.UserID,
		storeID:        opts.StoreID,
		storeName:      opts.StoreName,
		items:          items,
		totalPrice:     total,
		promotionValue: opts.PromotionValue,
		deliveryFee:    opts.DeliveryFee,
		deliveryMethod: opts.DeliveryMethod,
		paymentMethod:  opts.PaymentMethod,
		receiverInfo:   opts.Receiver,
		giveInfo:       opts.Give,
		status:         StatusPlaced,
		isPaid:         opts.PaymentMethod != MethodCash,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// TransitionTo moves the bill into target if the state machine allows the
// edge. It does not apply wallet side effects; those belong to the lifecycle
// service and are keyed on the target status.
func (b *Bill) TransitionTo(target Status) error {
	if !b.status.CanTransitionTo(target) {
		return NewInvalidStateTransitionError(b.status, target)
	}
	b.status = target
	b.updatedAt = time.Now()
	return nil
}

func (b *Bill) ID() string                    { return b.id }
func (b *Bill) UserID() string                { return b.userID }
func (b *Bill) StoreID() string               { return b.storeID }
func (b *Bill) StoreName() string             { return b.storeName }
func (b *Bill) TotalPrice() int64             { return b.totalPrice }
func (b *Bill) PromotionValue() int64         { return b.promotionValue }
func (b *Bill) DeliveryFee() int64            { return b.deliveryFee }
func (b *Bill) DeliveryMethod() string        { return b.deliveryMethod }
func (b *Bill) PaymentMethod() PaymentMethod  { return b.paymentMethod }
func (b *Bill) Receiver() ReceiverInfo        { return b.receiverInfo }
func (b *Bill) Status() Status                { return b.status }
func (b *Bill) IsPaid() bool                  { return b.isPaid }
func (b *Bill) CreatedAt() time.Time          { return b.createdAt }
func (b *Bill) UpdatedAt() time.Time          { return b.updatedAt }

// Give returns a copy of the gift metadata, nil when the order is not a gift.
func (b *Bill) Give() *GiveInfo {
	if b.giveInfo == nil {
		return nil
	}
	g := *b.giveInfo
	return &g
}

// Items returns a copy of the line items to keep the aggregate encapsulated.
func (b *Bill) Items() []Item {
	items := make([]Item, len(b.items))
	copy(items, b.items)
	return items
}

// ContainsProductType reports whether any line item's product type matches
// the given type, case-insensitively. Used by the statistics engine.
func (b *Bill) ContainsProductType(productType string) bool {
	for _, item := range b.items {
		if strings.EqualFold(item.productType, productType) {
			return true
		}
	}
	return false
}

func (item Item) ProductID() string   { return item.productID }
func (item Item) ProductName() string { return item.productName }
func (item Item) Quantity() int       { return item.quantity }
func (item Item) Price() int64        { return item.price }
func (item Item) ProductType() string { return item.productType }

// ReconstructionDTO rebuilds a bill loaded from storage. Repository use
// only; the application layer never constructs bills this way.
type ReconstructionDTO struct {
	ID             string
	UserID         string
	StoreID        string
	StoreName      string
	Items          []Item
	TotalPrice     int64
	PromotionValue int64
	DeliveryFee    int64
	DeliveryMethod string
	PaymentMethod  PaymentMethod
	Receiver       ReceiverInfo
	Give           *GiveInfo
	Status         Status
	IsPaid         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Rebuild reconstructs a bill from persisted state without re-running the
// creation invariants; stored bills are trusted.
func Rebuild(dto ReconstructionDTO) *Bill {
	return &Bill{
		id:             dto.ID,
		userID:         dto.UserID,
		storeID:        dto.StoreID,
		storeName:      dto.StoreName,
		items:          dto.Items,
		totalPrice:     dto.TotalPrice,
		promotionValue: dto.PromotionValue,
		deliveryFee:    dto.DeliveryFee,
		deliveryMethod: dto.DeliveryMethod,
		paymentMethod:  dto.PaymentMethod,
		receiverInfo:   dto.Receiver,
		giveInfo:       dto.Give,
		status:         dto.Status,
		isPaid:         dto.IsPaid,
		createdAt:      dto.CreatedAt,
		updatedAt:      dto.UpdatedAt,
	}
}

// RebuildItem reconstructs a line item from persisted state.
func RebuildItem(productID, productName string, quantity int, price int64, productType string) Item {
	return Item{
		productID:   productID,
		productName: productName,
		quantity:    quantity,
		price:       price,
		productType: productType,
	}
}
