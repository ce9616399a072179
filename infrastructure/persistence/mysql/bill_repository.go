package mysql

import (
	"context"
	"errors"
	"strings"
	"time"

	"marketbill/domain/bill"
	"marketbill/infrastructure/persistence/mysql/po"
	"marketbill/infrastructure/persistence/retry"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BillRepository MySQL/GORM implementation of the bill aggregate store.
// GORM association features are not used; bills and their items are
// persisted by hand to keep the aggregate boundary explicit. Driver faults
// never escape this type raw, they are wrapped into the opaque storage
// error at the boundary. Writes retry on transient faults per the retry
// policy.
type BillRepository struct {
	db    *gorm.DB
	retry retry.Config
}

// NewBillRepository Create bill repository with the default retry policy
func NewBillRepository(db *gorm.DB) *BillRepository {
	return NewBillRepositoryWithRetry(db, retry.DefaultConfig)
}

// NewBillRepositoryWithRetry Create bill repository with an explicit retry policy
func NewBillRepositoryWithRetry(db *gorm.DB, retryConfig retry.Config) *BillRepository {
	return &BillRepository{db: db, retry: retryConfig}
}

// NextIdentity Generate new bill ID
func (r *BillRepository) NextIdentity() string {
	return "bill-" + uuid.New().String()
}

// Save persists a new bill and its items in one transaction.
func (r *BillRepository) Save(ctx context.Context, b *bill.Bill) error {
	billPO, itemPOs := po.FromDomain(b)

	err := retry.ExecuteWithRetry(ctx, r.retry, func(ctx context.Context) error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(billPO).Error; err != nil {
				return err
			}
			if len(itemPOs) > 0 {
				if err := tx.Create(&itemPOs).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return bill.NewStorageError(err)
	}
	return nil
}

// FindByID loads one bill with its items.
func (r *BillRepository) FindByID(ctx context.Context, id string) (*bill.Bill, error) {
	db := r.db.WithContext(ctx)

	var billPO po.BillPO
	result := db.First(&billPO, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, bill.NewBillNotFoundError(id)
		}
		return nil, bill.NewStorageError(result.Error)
	}

	itemPOs, err := r.loadItems(db, id)
	if err != nil {
		return nil, err
	}
	return billPO.ToDomain(itemPOs), nil
}

// UpdateStatus persists a new status, reporting whether a bill matched.
func (r *BillRepository) UpdateStatus(ctx context.Context, id string, status bill.Status) (bool, error) {
	var affected int64
	err := retry.ExecuteWithRetry(ctx, r.retry, func(ctx context.Context) error {
		result := r.db.WithContext(ctx).
			Model(&po.BillPO{}).
			Where("id = ?", id).
			Update("status", string(status))
		if result.Error != nil {
			return result.Error
		}
		affected = result.RowsAffected
		return nil
	})
	if err != nil {
		return false, bill.NewStorageError(err)
	}
	return affected > 0, nil
}

// List returns the total match count and one page of bills, newest first.
func (r *BillRepository) List(ctx context.Context, filter bill.ListFilter) (int64, []*bill.Bill, error) {
	db := r.db.WithContext(ctx)

	query := db.Model(&po.BillPO{})
	switch {
	case filter.UserID != "":
		query = query.Where("user_id = ?", filter.UserID)
	case filter.StoreID != "":
		query = query.Where("store_id = ?", filter.StoreID)
	}

	if filter.StatusPattern != "" {
		query = query.Where("LOWER(status) LIKE ?", "%"+strings.ToLower(filter.StatusPattern)+"%")
	}

	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(store_name) LIKE ? OR id IN (SELECT bill_id FROM bill_items WHERE LOWER(product_name) LIKE ?)",
			pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, bill.NewStorageError(err)
	}

	offset := filter.Limit * (filter.Page - 1)
	var billPOs []po.BillPO
	if err := query.
		Order("created_at DESC").
		Limit(filter.Limit).
		Offset(offset).
		Find(&billPOs).Error; err != nil {
		return 0, nil, bill.NewStorageError(err)
	}

	bills, err := r.toDomainAll(db, billPOs)
	if err != nil {
		return 0, nil, err
	}
	return total, bills, nil
}

// CountByStatus counts a store's bills with the given status, limited to a
// calendar year when year > 0.
func (r *BillRepository) CountByStatus(ctx context.Context, storeID string, status bill.Status, year int) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&po.BillPO{}).
		Where("store_id = ? AND status = ?", storeID, string(status))
	if year > 0 {
		query = query.Where("YEAR(created_at) = ?", year)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, bill.NewStorageError(err)
	}
	return total, nil
}

// SumRevenue sums totalPrice over all of a store's bills.
func (r *BillRepository) SumRevenue(ctx context.Context, storeID string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&po.BillPO{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	if err != nil {
		return 0, bill.NewStorageError(err)
	}
	return total, nil
}

// MonthlyRevenue groups a store's revenue by calendar month of one year.
func (r *BillRepository) MonthlyRevenue(ctx context.Context, storeID string, year int) ([]bill.MonthRevenue, error) {
	var rows []bill.MonthRevenue
	err := r.db.WithContext(ctx).
		Model(&po.BillPO{}).
		Where("store_id = ? AND YEAR(created_at) = ?", storeID, year).
		Select("MONTH(created_at) AS month, SUM(total_price) AS revenue").
		Group("MONTH(created_at)").
		Order("month ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, bill.NewStorageError(err)
	}
	return rows, nil
}

// FindPlacedInRange returns PLACED bills created in [start, end],
// optionally narrowed to bills containing a product type.
func (r *BillRepository) FindPlacedInRange(ctx context.Context, storeID string, start, end time.Time, productType string) ([]*bill.Bill, error) {
	db := r.db.WithContext(ctx)

	query := db.Model(&po.BillPO{}).
		Where("store_id = ? AND status = ?", storeID, string(bill.StatusPlaced)).
		Where("created_at >= ? AND created_at <= ?", start, end)

	if productType != "" {
		query = query.Where(
			"id IN (SELECT bill_id FROM bill_items WHERE LOWER(product_type) LIKE ?)",
			"%"+strings.ToLower(productType)+"%",
		)
	}

	var billPOs []po.BillPO
	if err := query.Order("created_at DESC").Find(&billPOs).Error; err != nil {
		return nil, bill.NewStorageError(err)
	}
	return r.toDomainAll(db, billPOs)
}

func (r *BillRepository) loadItems(db *gorm.DB, billID string) ([]po.BillItemPO, error) {
	var itemPOs []po.BillItemPO
	if err := db.Where("bill_id = ?", billID).Find(&itemPOs).Error; err != nil {
		return nil, bill.NewStorageError(err)
	}
	return itemPOs, nil
}

func (r *BillRepository) toDomainAll(db *gorm.DB, billPOs []po.BillPO) ([]*bill.Bill, error) {
	bills := make([]*bill.Bill, len(billPOs))
	for i, billPO := range billPOs {
		itemPOs, err := r.loadItems(db, billPO.ID)
		if err != nil {
			return nil, err
		}
		bills[i] = billPO.ToDomain(itemPOs)
	}
	return bills, nil
}

// Compile-time interface check
var _ bill.Repository = (*BillRepository)(nil)
