/*
Package bill Application layer - bill lifecycle orchestration and the
read-side revenue engine.

The Service drives the creation flow (snapshot cart lines, settle through
the payment registry, persist, credit the wallet) and the status lifecycle
with its wallet side effects. Carts settle concurrently and independently:
there is no cross-cart transaction, so a checkout can partially succeed and
the result reports created and failed carts side by side.
*/
package bill

import (
	"context"

	"marketbill/config"
	"marketbill/domain/bill"
	"marketbill/domain/payment"
	"marketbill/pkg/errors"
	"marketbill/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Service coordinates the bill lifecycle against the aggregate store, the
// payment registry and the external wallet/identity/catalog collaborators.
type Service struct {
	bills      bill.Repository
	wallet     bill.WalletLedger
	users      bill.UserDirectory
	stores     bill.StoreDirectory
	products   bill.ProductCatalog
	payments   *payment.Registry
	pagination config.PaginationConfig
}

// NewService creates the lifecycle service. Pagination defaults are
// injected here once, not read from ambient state per call.
func NewService(
	bills bill.Repository,
	wallet bill.WalletLedger,
	users bill.UserDirectory,
	stores bill.StoreDirectory,
	products bill.ProductCatalog,
	payments *payment.Registry,
	pagination config.PaginationConfig,
) *Service {
	return &Service{
		bills:      bills,
		wallet:     wallet,
		users:      users,
		stores:     stores,
		products:   products,
		payments:   payments,
		pagination: pagination,
	}
}

// CreateOrders turns each store cart of a checkout into a bill: product
// snapshots are taken from the catalog, payment is routed through the
// gateway registry, the bill is persisted and the wallet credited with its
// total. Carts are processed concurrently; one failing cart never rolls
// back its siblings, the mixed outcome is the result.
func (s *Service) CreateOrders(ctx context.Context, userID string, req CreateOrdersRequest) (*CreateOrdersResult, error) {
	if _, err := s.users.GetUser(ctx, userID); err != nil {
		return nil, err
	}

	method := bill.PaymentMethod(req.PaymentMethod)
	created := make([]*CreatedBillResponse, len(req.Carts))
	failures := make([]*CartFailure, len(req.Carts))

	g, gctx := errgroup.WithContext(ctx)
	for i, cart := range req.Carts {
		i, cart := i, cart
		g.Go(func() error {
			res, err := s.createOne(gctx, userID, cart, method, req)
			if err != nil {
				appErr := errors.FromDomainError(err)
				logger.Warn("cart line failed during checkout",
					zap.String("user_id", userID),
					zap.Int("cart_index", i),
					zap.Error(err))
				failures[i] = &CartFailure{Index: i, Code: string(appErr.Code), Message: appErr.Message}
				// Partial failure is data, not an error: siblings keep going.
				return nil
			}
			created[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := &CreateOrdersResult{
		Created: make([]CreatedBillResponse, 0, len(req.Carts)),
		Failed:  make([]CartFailure, 0),
	}
	for i := range req.Carts {
		if created[i] != nil {
			result.Created = append(result.Created, *created[i])
		} else if failures[i] != nil {
			result.Failed = append(result.Failed, *failures[i])
		}
	}
	return result, nil
}

// createOne builds, settles, persists and credits one bill.
func (s *Service) createOne(ctx context.Context, userID string, cart StoreCartRequest, method bill.PaymentMethod, req CreateOrdersRequest) (*CreatedBillResponse, error) {
	if len(cart.Items) == 0 {
		return nil, bill.ErrEmptyItems
	}

	items := make([]bill.ItemRequest, len(cart.Items))
	storeID := ""
	for i, line := range cart.Items {
		product, err := s.products.GetProduct(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if storeID == "" {
			storeID = product.StoreID
		} else if storeID != product.StoreID {
			return nil, bill.ErrMixedStores
		}
		items[i] = bill.ItemRequest{
			ProductID:   product.ID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			Price:       product.Price,
			ProductType: product.Type,
		}
	}

	store, err := s.stores.GetStore(ctx, storeID)
	if err != nil {
		return nil, err
	}

	var give *bill.GiveInfo
	if req.GiveInfo != nil {
		give = &bill.GiveInfo{
			Name:    req.GiveInfo.Name,
			Phone:   req.GiveInfo.Phone,
			Message: req.GiveInfo.Message,
		}
	}

	b, err := bill.NewBill(bill.CreateOptions{
		UserID:         userID,
		StoreID:        store.ID,
		StoreName:      store.Name,
		Items:          items,
		PromotionValue: cart.PromotionValue,
		DeliveryFee:    req.DeliveryFee,
		DeliveryMethod: req.DeliveryMethod,
		PaymentMethod:  method,
		Receiver: bill.ReceiverInfo{
			Name:    req.ReceiverInfo.Name,
			Phone:   req.ReceiverInfo.Phone,
			Address: req.ReceiverInfo.Address,
		},
		Give: give,
	})
	if err != nil {
		return nil, err
	}

	// Settlement happens before persistence but its outcome is recorded,
	// not enforced: a decline does not abort the bill, the caller decides
	// what to do with an unsettled bill.
	settlement := s.payments.Process(ctx, b, method)
	if !settlement.Settled() {
		logger.Warn("settlement not completed",
			zap.String("bill_id", b.ID()),
			zap.String("method", string(method)),
			zap.String("settlement_status", string(settlement.Status)))
	}

	if err := s.bills.Save(ctx, b); err != nil {
		return nil, err
	}

	// Placement credits the tracked wallet figure by the bill total. The
	// direction is the platform's owed-funds convention, not buyer spend.
	if err := s.wallet.Credit(ctx, userID, b.TotalPrice()); err != nil {
		return nil, err
	}

	logger.Info("bill created",
		zap.String("bill_id", b.ID()),
		zap.String("user_id", userID),
		zap.String("store_id", b.StoreID()),
		zap.Int64("total_price", b.TotalPrice()),
		zap.String("settlement_status", string(settlement.Status)))

	return &CreatedBillResponse{Bill: toBillResponse(b), Settlement: settlement}, nil
}

// Cancel moves a bill to CANCELLED and reverses the placement credit with a
// wallet debit of the bill's total.
func (s *Service) Cancel(ctx context.Context, billID, userID string) (*BillResponse, error) {
	return s.transition(ctx, billID, userID, bill.StatusCancelled)
}

// UpdateStatus validates the target against the enumerated vocabulary and
// the transition table, persists the new status, then applies the wallet
// rules keyed on the target. The status is persisted even when no wallet
// rule applies.
func (s *Service) UpdateStatus(ctx context.Context, billID, rawStatus, userID string) (*BillResponse, error) {
	status, err := bill.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, billID, userID, status)
}

func (s *Service) transition(ctx context.Context, billID, userID string, target bill.Status) (*BillResponse, error) {
	b, err := s.bills.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}

	if err := b.TransitionTo(target); err != nil {
		return nil, err
	}

	found, err := s.bills.UpdateStatus(ctx, billID, target)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, bill.NewBillNotFoundError(billID)
	}

	for _, adj := range bill.WalletAdjustmentsFor(target) {
		amount := adj.Multiplier * b.TotalPrice()
		switch adj.Direction {
		case bill.WalletCredit:
			err = s.wallet.Credit(ctx, userID, amount)
		case bill.WalletDebit:
			err = s.wallet.Debit(ctx, userID, amount)
		}
		if err != nil {
			return nil, err
		}
	}

	logger.Info("bill status updated",
		zap.String("bill_id", billID),
		zap.String("user_id", userID),
		zap.String("status", string(target)))

	return toBillResponse(b), nil
}

// GetBill loads one bill.
func (s *Service) GetBill(ctx context.Context, billID string) (*BillResponse, error) {
	b, err := s.bills.FindByID(ctx, billID)
	if err != nil {
		return nil, err
	}
	return toBillResponse(b), nil
}

// ListByBuyer pages the buyer's bills.
func (s *Service) ListByBuyer(ctx context.Context, userID string, q ListQuery) (*BillListResponse, error) {
	return s.list(ctx, bill.ListFilter{UserID: userID}, q)
}

// ListByStore resolves the seller's store and pages its bills.
func (s *Service) ListByStore(ctx context.Context, sellerID string, q ListQuery) (*BillListResponse, error) {
	store, err := s.stores.GetStoreByUserID(ctx, sellerID)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, bill.ListFilter{StoreID: store.ID}, q)
}

func (s *Service) list(ctx context.Context, filter bill.ListFilter, q ListQuery) (*BillListResponse, error) {
	filter.Page = q.Page
	if filter.Page <= 0 {
		filter.Page = s.pagination.DefaultPage
	}
	filter.Limit = q.Limit
	if filter.Limit <= 0 {
		filter.Limit = s.pagination.DefaultLimit
	}
	filter.Search = q.Search
	filter.StatusPattern = q.Status

	total, bills, err := s.bills.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return &BillListResponse{Total: total, Bills: toBillResponses(bills)}, nil
}
