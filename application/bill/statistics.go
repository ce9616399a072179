package bill

import (
	"context"
	"time"

	"marketbill/domain/bill"

	"golang.org/x/sync/errgroup"
)

// StatisticKindRevenue selects the revenue variant of the ranged statistic;
// any other kind is treated as a product-type filter.
const StatisticKindRevenue = "revenue"

// StatisticsService is the read-only revenue engine over the aggregate
// store. Reads are point-in-time snapshots with no locking against
// concurrent writes; the numbers are informational, never settlement input.
type StatisticsService struct {
	bills bill.Repository
}

// NewStatisticsService creates the revenue engine.
func NewStatisticsService(bills bill.Repository) *StatisticsService {
	return &StatisticsService{bills: bills}
}

// CountByStatus counts a store's bills per enumerated status, optionally
// restricted to one calendar year (year <= 0 means all time). The result
// has one entry per status in the fixed set, counts may be zero.
func (s *StatisticsService) CountByStatus(ctx context.Context, storeID string, year int) (map[string]int64, error) {
	statuses := bill.AllStatuses()
	counts := make([]int64, len(statuses))

	g, gctx := errgroup.WithContext(ctx)
	for i, status := range statuses {
		i, status := i, status
		g.Go(func() error {
			n, err := s.bills.CountByStatus(gctx, storeID, status, year)
			if err != nil {
				return err
			}
			counts[i] = n
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(statuses))
	for i, status := range statuses {
		result[string(status)] = counts[i]
	}
	return result, nil
}

// RevenueAllTime sums totalPrice over all of a store's bills.
func (s *StatisticsService) RevenueAllTime(ctx context.Context, storeID string) (int64, error) {
	return s.bills.SumRevenue(ctx, storeID)
}

// RevenueByYear breaks a store's revenue down by calendar month of the
// given year. All 12 months are reported, absent months as 0; min and max
// scan the filled map in ascending month order so ties keep the earliest
// month. The all-time figure is computed independently, not derived from
// the yearly sum.
func (s *StatisticsService) RevenueByYear(ctx context.Context, storeID string, year int) (*YearRevenueResponse, error) {
	months, err := s.bills.MonthlyRevenue(ctx, storeID, year)
	if err != nil {
		return nil, err
	}

	monthly := make(map[int]int64, 12)
	for m := 1; m <= 12; m++ {
		monthly[m] = 0
	}
	var totalInYear int64
	for _, mr := range months {
		if mr.Month < 1 || mr.Month > 12 {
			continue
		}
		monthly[mr.Month] = mr.Revenue
		totalInYear += mr.Revenue
	}

	min := bill.MonthRevenue{Month: 1, Revenue: monthly[1]}
	max := bill.MonthRevenue{Month: 1, Revenue: monthly[1]}
	for m := 2; m <= 12; m++ {
		if monthly[m] < min.Revenue {
			min = bill.MonthRevenue{Month: m, Revenue: monthly[m]}
		}
		if monthly[m] > max.Revenue {
			max = bill.MonthRevenue{Month: m, Revenue: monthly[m]}
		}
	}

	allTime, err := s.RevenueAllTime(ctx, storeID)
	if err != nil {
		return nil, err
	}

	return &YearRevenueResponse{
		Monthly:             monthly,
		RevenueTotalInYear:  totalInYear,
		RevenueTotalAllTime: allTime,
		Min:                 min,
		Max:                 max,
	}, nil
}

// Statistic returns the store's PLACED bills with createdAt in
// [start, end]. Kind "revenue" returns them all (the caller sums totals);
// any other kind keeps only bills containing a line item of that product
// type.
func (s *StatisticsService) Statistic(ctx context.Context, storeID string, start, end time.Time, kind string) ([]*BillResponse, error) {
	productType := ""
	if kind != StatisticKindRevenue {
		productType = kind
	}
	bills, err := s.bills.FindPlacedInRange(ctx, storeID, start, end, productType)
	if err != nil {
		return nil, err
	}
	return toBillResponses(bills), nil
}
