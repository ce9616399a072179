package bill

import (
	"time"

	"marketbill/domain/bill"
	"marketbill/domain/payment"
)

// CreateOrdersRequest is the checkout payload. Each entry in Carts holds one
// store's share of the buyer's cart and becomes one bill.
type CreateOrdersRequest struct {
	Carts          []StoreCartRequest  `json:"data" binding:"required,min=1"`
	DeliveryMethod string              `json:"delivery_method" binding:"required"`
	PaymentMethod  string              `json:"payment_method" binding:"required"`
	ReceiverInfo   ReceiverInfoRequest `json:"receiver_info" binding:"required"`
	GiveInfo       *GiveInfoRequest    `json:"give_info"`
	DeliveryFee    int64               `json:"delivery_fee" binding:"min=0"`
}

// StoreCartRequest is one store's cart lines plus the promotion applied to
// that store's subtotal.
type StoreCartRequest struct {
	Items          []CartItemRequest `json:"list_products" binding:"required,min=1"`
	PromotionValue int64             `json:"promotion_value" binding:"min=0"`
}

// CartItemRequest references a catalog product; price, name and type are
// snapshotted from the catalog at creation time.
type CartItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// ReceiverInfoRequest is the delivery contact.
type ReceiverInfoRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address" binding:"required"`
}

// GiveInfoRequest is optional gift metadata.
type GiveInfoRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// BillResponse is the bill return model.
type BillResponse struct {
	ID             string              `json:"id"`
	UserID         string              `json:"user_id"`
	StoreID        string              `json:"store_id"`
	StoreName      string              `json:"store_name"`
	Items          []BillItemResponse  `json:"list_products"`
	TotalPrice     int64               `json:"total_price"`
	PromotionValue int64               `json:"promotion_value"`
	DeliveryFee    int64               `json:"delivery_fee"`
	DeliveryMethod string              `json:"delivery_method"`
	PaymentMethod  string              `json:"payment_method"`
	ReceiverInfo   bill.ReceiverInfo   `json:"receiver_info"`
	GiveInfo       *bill.GiveInfo      `json:"give_info,omitempty"`
	Status         string              `json:"status"`
	IsPaid         bool                `json:"is_paid"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// BillItemResponse is one line item of a bill.
type BillItemResponse struct {
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Price       int64  `json:"price"`
	Type        string `json:"type"`
}

// CreatedBillResponse pairs a created bill with its settlement outcome; a
// declined settlement does not undo the bill.
type CreatedBillResponse struct {
	Bill       *BillResponse             `json:"bill"`
	Settlement payment.SettlementResult  `json:"settlement"`
}

// CartFailure reports one cart line that could not be turned into a bill.
type CartFailure struct {
	Index   int    `json:"index"` // position in the request's Carts slice
	Code    string `json:"code"`
	Message string `json:"message"`
}

// CreateOrdersResult is the partial-failure aware outcome of a checkout:
// some carts may have produced bills while others failed, and the caller
// sees both.
type CreateOrdersResult struct {
	Created []CreatedBillResponse `json:"created"`
	Failed  []CartFailure         `json:"failed"`
}

// ListQuery narrows and pages a bill listing. Zero Page/Limit fall back to
// the configured defaults.
type ListQuery struct {
	Page   int
	Limit  int
	Search string
	Status string // case-insensitive substring pattern, required
}

// BillListResponse is one page of bills plus the total match count.
type BillListResponse struct {
	Total int64           `json:"total"`
	Bills []*BillResponse `json:"bills"`
}

// YearRevenueResponse is the monthly revenue breakdown of one calendar
// year. Monthly always holds exactly 12 entries; months without bills
// report 0.
type YearRevenueResponse struct {
	Monthly             map[int]int64     `json:"data"`
	RevenueTotalInYear  int64             `json:"revenue_total_in_year"`
	RevenueTotalAllTime int64             `json:"revenue_total_all_time"`
	Min                 bill.MonthRevenue `json:"min_revenue"`
	Max                 bill.MonthRevenue `json:"max_revenue"`
}

func toBillResponse(b *bill.Bill) *BillResponse {
	items := b.Items()
	itemResponses := make([]BillItemResponse, len(items))
	for i, item := range items {
		itemResponses[i] = BillItemResponse{
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			Price:       item.Price(),
			Type:        item.ProductType(),
		}
	}
	return &BillResponse{
		ID:             b.ID(),
		UserID:         b.UserID(),
		StoreID:        b.StoreID(),
		StoreName:      b.StoreName(),
		Items:          itemResponses,
		TotalPrice:     b.TotalPrice(),
		PromotionValue: b.PromotionValue(),
		DeliveryFee:    b.DeliveryFee(),
		DeliveryMethod: b.DeliveryMethod(),
		PaymentMethod:  string(b.PaymentMethod()),
		ReceiverInfo:   b.Receiver(),
		GiveInfo:       b.Give(),
		Status:         string(b.Status()),
		IsPaid:         b.IsPaid(),
		CreatedAt:      b.CreatedAt(),
		UpdatedAt:      b.UpdatedAt(),
	}
}

func toBillResponses(bills []*bill.Bill) []*BillResponse {
	responses := make([]*BillResponse, len(bills))
	for i, b := range bills {
		responses[i] = toBillResponse(b)
	}
	return responses
}
