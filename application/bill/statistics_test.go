package bill

import (
	"context"
	"fmt"
	"testing"
	"time"

	"marketbill/domain/bill"
	"marketbill/infrastructure/persistence/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var seedCounter int

// seedBill persists a bill with a fixed creation time, bypassing the
// factory so tests control the clock.
func seedBill(t *testing.T, repo *mocks.MockBillRepository, storeID string, status bill.Status, total int64, createdAt time.Time, productType string) string {
	t.Helper()
	seedCounter++
	id := fmt.Sprintf("bill-%03d", seedCounter)
	b := bill.Rebuild(bill.ReconstructionDTO{
		ID:         id,
		UserID:     "user-1",
		StoreID:    storeID,
		StoreName:  "Fresh Grocer",
		Items:      []bill.Item{bill.RebuildItem("prod-1", "Arabica Beans 1kg", 1, total, productType)},
		TotalPrice: total,
		Status:     status,
		IsPaid:     true,
		CreatedAt:  createdAt,
		UpdatedAt:  createdAt,
	})
	require.NoError(t, repo.Save(context.Background(), b))
	return id
}

func TestCountByStatus(t *testing.T) {
	repo := mocks.NewMockBillRepository()
	svc := NewStatisticsService(repo)
	ctx := context.Background()

	jan2023 := time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC)
	jun2022 := time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC)

	seedBill(t, repo, "store-1", bill.StatusPlaced, 100, jan2023, "coffee")
	seedBill(t, repo, "store-1", bill.StatusPlaced, 100, jan2023, "coffee")
	seedBill(t, repo, "store-1", bill.StatusDelivered, 100, jan2023, "coffee")
	seedBill(t, repo, "store-1", bill.StatusPlaced, 100, jun2022, "coffee")
	seedBill(t, repo, "store-2", bill.StatusPlaced, 100, jan2023, "coffee")

	t.Run("all time", func(t *testing.T) {
		counts, err := svc.CountByStatus(ctx, "store-1", 0)
		require.NoError(t, err)
		require.Len(t, counts, 6, "one entry per enumerated status")
		assert.Equal(t, int64(3), counts["PLACED"])
		assert.Equal(t, int64(1), counts["DELIVERED"])
		assert.Equal(t, int64(0), counts["REFUNDED"])
	})

	t.Run("restricted to one year", func(t *testing.T) {
		counts, err := svc.CountByStatus(ctx, "store-1", 2023)
		require.NoError(t, err)
		assert.Equal(t, int64(2), counts["PLACED"])
	})
}

func TestRevenueByYear(t *testing.T) {
	repo := mocks.NewMockBillRepository()
	svc := NewStatisticsService(repo)

	seedBill(t, repo, "store-1", bill.StatusPlaced, 100,
		time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), "coffee")
	seedBill(t, repo, "store-1", bill.StatusDelivered, 50,
		time.Date(2023, 3, 20, 0, 0, 0, 0, time.UTC), "coffee")
	// Outside the year, counts toward all-time only
	seedBill(t, repo, "store-1", bill.StatusPlaced, 30,
		time.Date(2022, 7, 1, 0, 0, 0, 0, time.UTC), "coffee")

	result, err := svc.RevenueByYear(context.Background(), "store-1", 2023)
	require.NoError(t, err)

	require.Len(t, result.Monthly, 12, "every month reports, absent ones as zero")
	assert.Equal(t, int64(100), result.Monthly[1])
	assert.Equal(t, int64(0), result.Monthly[2])
	assert.Equal(t, int64(50), result.Monthly[3])

	assert.Equal(t, int64(150), result.RevenueTotalInYear)
	assert.Equal(t, int64(180), result.RevenueTotalAllTime)

	assert.Equal(t, bill.MonthRevenue{Month: 2, Revenue: 0}, result.Min,
		"min is the earliest zero month")
	assert.Equal(t, bill.MonthRevenue{Month: 1, Revenue: 100}, result.Max)
}

func TestRevenueByYearEmpty(t *testing.T) {
	repo := mocks.NewMockBillRepository()
	svc := NewStatisticsService(repo)

	result, err := svc.RevenueByYear(context.Background(), "store-1", 2023)
	require.NoError(t, err)

	require.Len(t, result.Monthly, 12)
	assert.Equal(t, int64(0), result.RevenueTotalInYear)
	assert.Equal(t, bill.MonthRevenue{Month: 1, Revenue: 0}, result.Min,
		"ties keep the earliest month")
	assert.Equal(t, bill.MonthRevenue{Month: 1, Revenue: 0}, result.Max)
}

func TestRevenueAllTime(t *testing.T) {
	repo := mocks.NewMockBillRepository()
	svc := NewStatisticsService(repo)

	seedBill(t, repo, "store-1", bill.StatusPlaced, 100, time.Now(), "coffee")
	seedBill(t, repo, "store-1", bill.StatusCancelled, 40, time.Now(), "coffee")
	seedBill(t, repo, "store-2", bill.StatusPlaced, 999, time.Now(), "coffee")

	total, err := svc.RevenueAllTime(context.Background(), "store-1")
	require.NoError(t, err)
	assert.Equal(t, int64(140), total)
}

func TestStatistic(t *testing.T) {
	repo := mocks.NewMockBillRepository()
	svc := NewStatisticsService(repo)
	ctx := context.Background()

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2023, 12, 31, 23, 59, 59, 0, time.UTC)
	inside := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)

	coffeeID := seedBill(t, repo, "store-1", bill.StatusPlaced, 100, inside, "coffee")
	mugID := seedBill(t, repo, "store-1", bill.StatusPlaced, 50, inside, "kitchenware")
	// Wrong status and wrong window never appear
	seedBill(t, repo, "store-1", bill.StatusDelivered, 70, inside, "coffee")
	seedBill(t, repo, "store-1", bill.StatusPlaced, 80,
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), "coffee")

	t.Run("revenue kind returns every placed bill in range", func(t *testing.T) {
		bills, err := svc.Statistic(ctx, "store-1", start, end, StatisticKindRevenue)
		require.NoError(t, err)
		require.Len(t, bills, 2)
		ids := []string{bills[0].ID, bills[1].ID}
		assert.ElementsMatch(t, []string{coffeeID, mugID}, ids)
	})

	t.Run("other kinds filter by product type", func(t *testing.T) {
		bills, err := svc.Statistic(ctx, "store-1", start, end, "coffee")
		require.NoError(t, err)
		require.Len(t, bills, 1)
		assert.Equal(t, coffeeID, bills[0].ID)

		none, err := svc.Statistic(ctx, "store-1", start, end, "electronics")
		require.NoError(t, err)
		assert.Empty(t, none)
	})
}
