/*
Package bill - bill API controller.

Buyer routes live under /bills/user, seller routes under /bills/seller. The
acting identity arrives in the X-User-ID header; authentication itself is
handled upstream of this service. Seller routes resolve the caller's store
through the store directory before touching bill data.
*/
package bill

import (
	"net/http"
	"strconv"
	"time"

	"marketbill/api/response"
	billapp "marketbill/application/bill"
	"marketbill/domain/bill"
	"marketbill/pkg/errors"

	"github.com/gin-gonic/gin"
)

// UserIDHeader carries the acting user's identity.
const UserIDHeader = "X-User-ID"

// Controller Bill controller
type Controller struct {
	billService  *billapp.Service
	statsService *billapp.StatisticsService
	stores       bill.StoreDirectory
}

// NewController Create bill controller
func NewController(billService *billapp.Service, statsService *billapp.StatisticsService, stores bill.StoreDirectory) *Controller {
	return &Controller{
		billService:  billService,
		statsService: statsService,
		stores:       stores,
	}
}

// RegisterRoutes Register bill routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	userGroup := router.Group("/bills/user")
	{
		userGroup.POST("", c.CreateOrders)
		userGroup.GET("", c.ListBuyerBills)
		userGroup.GET("/:id", c.GetBill)
		userGroup.PUT("/:id", c.CancelBill)
	}

	sellerGroup := router.Group("/bills/seller")
	{
		sellerGroup.GET("", c.ListStoreBills)
		sellerGroup.PUT("/:id", c.UpdateBillStatus)
		sellerGroup.GET("/count-total-by-status", c.CountByStatus)
		sellerGroup.GET("/calculate-revenue-by-month", c.RevenueByMonth)
		sellerGroup.GET("/statistic", c.Statistic)
	}
}

// identity extracts the acting user id from the request header.
func identity(ctx *gin.Context) (string, bool) {
	userID := ctx.GetHeader(UserIDHeader)
	if userID == "" {
		response.HandleError(ctx, errors.BadRequest("user identity is required"),
			"missing "+UserIDHeader+" header", http.StatusBadRequest)
		return "", false
	}
	return userID, true
}

// CreateOrders places one bill per store cart and credits the wallet for
// each created bill. Failures are per-cart; one bad cart never blocks the
// rest.
// POST /api/v1/bills/user
func (c *Controller) CreateOrders(ctx *gin.Context) {
	userID, ok := identity(ctx)
	if !ok {
		return
	}

	var req billapp.CreateOrdersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	result, err := c.billService.CreateOrders(ctx.Request.Context(), userID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleCreated(ctx, result, "orders created")
}

// ListBuyerBills lists the caller's bills as a buyer.
// GET /api/v1/bills/user?page=&limit=&search=&status=
func (c *Controller) ListBuyerBills(ctx *gin.Context) {
	userID, ok := identity(ctx)
	if !ok {
		return
	}

	q, ok := c.listQuery(ctx)
	if !ok {
		return
	}

	page, err := c.billService.ListByBuyer(ctx.Request.Context(), userID, q)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, page, "bills retrieved")
}

// GetBill fetches one bill by id.
// GET /api/v1/bills/user/:id
func (c *Controller) GetBill(ctx *gin.Context) {
	billID := ctx.Param("id")

	b, err := c.billService.GetBill(ctx.Request.Context(), billID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, b, "bill retrieved")
}

// CancelBill cancels the bill and refunds the wallet.
// PUT /api/v1/bills/user/:id
func (c *Controller) CancelBill(ctx *gin.Context) {
	userID, ok := identity(ctx)
	if !ok {
		return
	}
	billID := ctx.Param("id")

	b, err := c.billService.Cancel(ctx.Request.Context(), billID, userID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, b, "bill cancelled")
}

// ListStoreBills lists the bills of the caller's store.
// GET /api/v1/bills/seller?page=&limit=&search=&status=
func (c *Controller) ListStoreBills(ctx *gin.Context) {
	userID, ok := identity(ctx)
	if !ok {
		return
	}

	q, ok := c.listQuery(ctx)
	if !ok {
		return
	}

	page, err := c.billService.ListByStore(ctx.Request.Context(), userID, q)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, page, "bills retrieved")
}

// UpdateBillStatus moves a bill through the lifecycle, applying wallet side
// effects keyed on the target status.
// PUT /api/v1/bills/seller/:id?status=
func (c *Controller) UpdateBillStatus(ctx *gin.Context) {
	userID, ok := identity(ctx)
	if !ok {
		return
	}
	billID := ctx.Param("id")

	status := ctx.Query("status")
	if status == "" {
		response.HandleError(ctx, errors.BadRequest("status is required"),
			"status query parameter is required", http.StatusBadRequest)
		return
	}

	b, err := c.billService.UpdateStatus(ctx.Request.Context(), billID, status, userID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, b, "bill status updated")
}

// CountByStatus reports the caller store's bill count per lifecycle status.
// GET /api/v1/bills/seller/count-total-by-status?year=
func (c *Controller) CountByStatus(ctx *gin.Context) {
	store, ok := c.callerStore(ctx)
	if !ok {
		return
	}

	year := 0
	if raw := ctx.Query("year"); raw != "" {
		parsed, err := parseYear(raw)
		if err != nil {
			response.HandleError(ctx, err, "invalid year parameter", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	counts, err := c.statsService.CountByStatus(ctx.Request.Context(), store.ID, year)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, counts, "bill counts retrieved")
}

// RevenueByMonth reports the caller store's month-by-month revenue for one
// calendar year, defaulting to the current year.
// GET /api/v1/bills/seller/calculate-revenue-by-month?year=
func (c *Controller) RevenueByMonth(ctx *gin.Context) {
	store, ok := c.callerStore(ctx)
	if !ok {
		return
	}

	year := time.Now().Year()
	if raw := ctx.Query("year"); raw != "" {
		parsed, err := parseYear(raw)
		if err != nil {
			response.HandleError(ctx, err, "invalid year parameter", http.StatusBadRequest)
			return
		}
		year = parsed
	}

	revenue, err := c.statsService.RevenueByYear(ctx.Request.Context(), store.ID, year)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, revenue, "revenue retrieved")
}

// Statistic returns the caller store's PLACED bills in a time window,
// either all of them (type=revenue) or those containing a product type.
// GET /api/v1/bills/seller/statistic?startTime=&endTime=&type=
func (c *Controller) Statistic(ctx *gin.Context) {
	store, ok := c.callerStore(ctx)
	if !ok {
		return
	}

	kind := ctx.Query("type")
	if kind == "" {
		response.HandleError(ctx, errors.BadRequest("type is required"),
			"type query parameter is required", http.StatusBadRequest)
		return
	}

	start, err := parseTime(ctx.Query("startTime"))
	if err != nil {
		response.HandleError(ctx, err, "invalid startTime parameter", http.StatusBadRequest)
		return
	}

	end := time.Now()
	if raw := ctx.Query("endTime"); raw != "" {
		end, err = parseTime(raw)
		if err != nil {
			response.HandleError(ctx, err, "invalid endTime parameter", http.StatusBadRequest)
			return
		}
	}

	bills, err := c.statsService.Statistic(ctx.Request.Context(), store.ID, start, end, kind)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}

	response.HandleSuccess(ctx, bills, "statistic retrieved")
}

// callerStore resolves the caller's store, failing the request when the
// seller has none.
func (c *Controller) callerStore(ctx *gin.Context) (*bill.Store, bool) {
	userID, ok := identity(ctx)
	if !ok {
		return nil, false
	}

	store, err := c.stores.GetStoreByUserID(ctx.Request.Context(), userID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return nil, false
	}
	return store, true
}

// listQuery parses the shared listing parameters. Status is required; page
// and limit fall back to configured defaults when absent.
func (c *Controller) listQuery(ctx *gin.Context) (billapp.ListQuery, bool) {
	status := ctx.Query("status")
	if status == "" {
		response.HandleError(ctx, errors.BadRequest("status is required"),
			"status query parameter is required", http.StatusBadRequest)
		return billapp.ListQuery{}, false
	}

	q := billapp.ListQuery{
		Search: ctx.Query("search"),
		Status: status,
	}

	if raw := ctx.Query("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			response.HandleError(ctx, errors.BadRequest("invalid page"),
				"page must be a positive integer", http.StatusBadRequest)
			return billapp.ListQuery{}, false
		}
		q.Page = page
	}
	if raw := ctx.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			response.HandleError(ctx, errors.BadRequest("invalid limit"),
				"limit must be a positive integer", http.StatusBadRequest)
			return billapp.ListQuery{}, false
		}
		q.Limit = limit
	}

	return q, true
}

// parseYear accepts either a bare integer or an ISO date and returns the
// calendar year.
func parseYear(raw string) (int, error) {
	if year, err := strconv.Atoi(raw); err == nil {
		if year < 1970 || year > 9999 {
			return 0, errors.BadRequest("year out of range")
		}
		return year, nil
	}

	t, err := parseTime(raw)
	if err != nil {
		return 0, err
	}
	return t.Year(), nil
}

// parseTime accepts RFC 3339 or a bare yyyy-mm-dd date.
func parseTime(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, errors.BadRequest("invalid time format, expected RFC 3339 or yyyy-mm-dd")
	}
	return t, nil
}
