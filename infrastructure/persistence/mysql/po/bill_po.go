// Package po holds the persistence objects mapping bills onto MySQL
// tables. POs carry no business logic and define no GORM associations;
// aggregate boundaries are managed by hand in the repository.
package po

import (
	"time"

	"marketbill/domain/bill"
)

// BillPO Bill persistence object
type BillPO struct {
	ID             string    `gorm:"primaryKey;size:64"`
	UserID         string    `gorm:"size:64;index;not null"`
	StoreID        string    `gorm:"size:64;index;not null"`
	StoreName      string    `gorm:"size:255;not null"`
	TotalPrice     int64     `gorm:"not null"`
	PromotionValue int64     `gorm:"not null;default:0"`
	DeliveryFee    int64     `gorm:"not null;default:0"`
	DeliveryMethod string    `gorm:"size:64"`
	PaymentMethod  string    `gorm:"size:32;not null"`
	ReceiverName   string    `gorm:"size:255"`
	ReceiverPhone  string    `gorm:"size:32"`
	ReceiverAddr   string    `gorm:"size:512"`
	IsGift         bool      `gorm:"not null;default:false"`
	GiveName       string    `gorm:"size:255"`
	GivePhone      string    `gorm:"size:32"`
	GiveMessage    string    `gorm:"size:512"`
	Status         string    `gorm:"size:20;index;not null"`
	IsPaid         bool      `gorm:"not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

// TableName Specify table name
func (BillPO) TableName() string {
	return "bills"
}

// BillItemPO Bill line item persistence object
type BillItemPO struct {
	ID          uint   `gorm:"primaryKey;autoIncrement"`
	BillID      string `gorm:"size:64;index;not null"`
	ProductID   string `gorm:"size:64;not null"`
	ProductName string `gorm:"size:255;not null"`
	Quantity    int    `gorm:"not null"`
	Price       int64  `gorm:"not null"`
	ProductType string `gorm:"size:64;index"`
}

// TableName Specify table name
func (BillItemPO) TableName() string {
	return "bill_items"
}

// FromDomain converts the aggregate into its persistence objects.
func FromDomain(b *bill.Bill) (*BillPO, []BillItemPO) {
	billPO := &BillPO{
		ID:             b.ID(),
		UserID:         b.UserID(),
		StoreID:        b.StoreID(),
		StoreName:      b.StoreName(),
		TotalPrice:     b.TotalPrice(),
		PromotionValue: b.PromotionValue(),
		DeliveryFee:    b.DeliveryFee(),
		DeliveryMethod: b.DeliveryMethod(),
		PaymentMethod:  string(b.PaymentMethod()),
		ReceiverName:   b.Receiver().Name,
		ReceiverPhone:  b.Receiver().Phone,
		ReceiverAddr:   b.Receiver().Address,
		Status:         string(b.Status()),
		IsPaid:         b.IsPaid(),
		CreatedAt:      b.CreatedAt(),
		UpdatedAt:      b.UpdatedAt(),
	}
	if give := b.Give(); give != nil {
		billPO.IsGift = true
		billPO.GiveName = give.Name
		billPO.GivePhone = give.Phone
		billPO.GiveMessage = give.Message
	}

	items := b.Items()
	itemPOs := make([]BillItemPO, len(items))
	for i, item := range items {
		itemPOs[i] = BillItemPO{
			BillID:      b.ID(),
			ProductID:   item.ProductID(),
			ProductName: item.ProductName(),
			Quantity:    item.Quantity(),
			Price:       item.Price(),
			ProductType: item.ProductType(),
		}
	}

	return billPO, itemPOs
}

// ToDomain rebuilds the aggregate from persistence objects.
func (p *BillPO) ToDomain(itemPOs []BillItemPO) *bill.Bill {
	items := make([]bill.Item, len(itemPOs))
	for i, itemPO := range itemPOs {
		items[i] = bill.RebuildItem(itemPO.ProductID, itemPO.ProductName, itemPO.Quantity, itemPO.Price, itemPO.ProductType)
	}

	var give *bill.GiveInfo
	if p.IsGift {
		give = &bill.GiveInfo{
			Name:    p.GiveName,
			Phone:   p.GivePhone,
			Message: p.GiveMessage,
		}
	}

	return bill.Rebuild(bill.ReconstructionDTO{
		ID:             p.ID,
		UserID:         p.UserID,
		StoreID:        p.StoreID,
		StoreName:      p.StoreName,
		Items:          items,
		TotalPrice:     p.TotalPrice,
		PromotionValue: p.PromotionValue,
		DeliveryFee:    p.DeliveryFee,
		DeliveryMethod: p.DeliveryMethod,
		PaymentMethod:  bill.PaymentMethod(p.PaymentMethod),
		Receiver: bill.ReceiverInfo{
			Name:    p.ReceiverName,
			Phone:   p.ReceiverPhone,
			Address: p.ReceiverAddr,
		},
		Give:      give,
		Status:    bill.Status(p.Status),
		IsPaid:    p.IsPaid,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	})
}
