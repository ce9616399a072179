package bill

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	billapp "marketbill/application/bill"
	"marketbill/config"
	"marketbill/domain/bill"
	"marketbill/domain/payment"
	"marketbill/infrastructure/persistence/mocks"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	engine *gin.Engine
	bills  *mocks.MockBillRepository
	wallet *mocks.MockWalletLedger
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	bills := mocks.NewMockBillRepository()
	wallet := mocks.NewMockWalletLedger()
	users := mocks.NewMockUserDirectory()
	stores := mocks.NewMockStoreDirectory()
	products := mocks.NewMockProductCatalog()

	registry := payment.NewRegistry(time.Second)
	registry.Register(bill.MethodMobileWallet, &payment.MobileWalletGateway{})
	registry.Register(bill.MethodGift, &payment.GiftGateway{})

	service := billapp.NewService(bills, wallet, users, stores, products, registry,
		config.PaginationConfig{DefaultPage: 1, DefaultLimit: 10})
	stats := billapp.NewStatisticsService(bills)

	controller := NewController(service, stats, stores)

	engine := gin.New()
	controller.RegisterRoutes(engine.Group("/api/v1"))

	return &fixture{engine: engine, bills: bills, wallet: wallet}
}

func (f *fixture) do(t *testing.T, method, path, userID string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(UserIDHeader, userID)
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func checkoutBody() map[string]interface{} {
	return map[string]interface{}{
		"data": []map[string]interface{}{
			{
				"list_products": []map[string]interface{}{
					{"product_id": "prod-1", "quantity": 2},
				},
				"promotion_value": 100,
			},
		},
		"delivery_method": "standard",
		"payment_method":  "MOBILE_WALLET",
		"receiver_info": map[string]interface{}{
			"name":    "Alice",
			"phone":   "555-0100",
			"address": "1 Main St",
		},
	}
}

// createBill drives the full create endpoint and returns the new bill id.
func (f *fixture) createBill(t *testing.T) string {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/bills/user", "user-1", checkoutBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var envelope struct {
		Metadata struct {
			Data billapp.CreateOrdersResult `json:"data"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Len(t, envelope.Metadata.Data.Created, 1)
	return envelope.Metadata.Data.Created[0].Bill.ID
}

func TestCreateOrdersEndpoint(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/bills/user", "user-1", checkoutBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var envelope struct {
		Code     int    `json:"code"`
		Message  string `json:"message"`
		Metadata struct {
			Data billapp.CreateOrdersResult `json:"data"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	assert.Equal(t, http.StatusCreated, envelope.Code)
	require.Len(t, envelope.Metadata.Data.Created, 1)
	created := envelope.Metadata.Data.Created[0]
	assert.Equal(t, "PLACED", created.Bill.Status)
	assert.Equal(t, int64(2*1500-100), created.Bill.TotalPrice)
	assert.Equal(t, payment.SettlementApproved, created.Settlement.Status)
}

func TestCreateOrdersRequiresIdentity(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/bills/user", "", checkoutBody())
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateOrdersRejectsMalformedBody(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodPost, "/api/v1/bills/user", "user-1", map[string]interface{}{
		"data": []map[string]interface{}{},
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetBillEndpoint(t *testing.T) {
	f := newFixture(t)
	id := f.createBill(t)

	w := f.do(t, http.MethodGet, "/api/v1/bills/user/"+id, "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Metadata struct {
			Data billapp.BillResponse `json:"data"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, id, envelope.Metadata.Data.ID)
}

func TestGetBillNotFound(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/bills/user/bill-missing", "user-1", nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope struct {
		Code    int    `json:"code"`
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "BILL_NOT_FOUND", envelope.Error)
	assert.Equal(t, "bill not found", envelope.Message)
}

func TestCancelBillEndpoint(t *testing.T) {
	f := newFixture(t)
	id := f.createBill(t)

	w := f.do(t, http.MethodPut, "/api/v1/bills/user/"+id, "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	assert.Equal(t, int64(0), f.wallet.Balance("user-1"), "cancel reverses the placement credit")
}

func TestUpdateBillStatusEndpoint(t *testing.T) {
	f := newFixture(t)
	id := f.createBill(t)

	w := f.do(t, http.MethodPut, "/api/v1/bills/seller/"+id+"?status=CONFIRMED", "user-2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Metadata struct {
			Data billapp.BillResponse `json:"data"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "CONFIRMED", envelope.Metadata.Data.Status)
}

func TestUpdateBillStatusRequiresStatusParam(t *testing.T) {
	f := newFixture(t)
	id := f.createBill(t)

	w := f.do(t, http.MethodPut, "/api/v1/bills/seller/"+id, "user-2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateBillStatusInvalidTransition(t *testing.T) {
	f := newFixture(t)
	id := f.createBill(t)

	w := f.do(t, http.MethodPut, "/api/v1/bills/seller/"+id+"?status=DELIVERED", "user-2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(t, http.MethodPut, "/api/v1/bills/seller/"+id+"?status=CONFIRMED", "user-2", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestListBuyerBillsEndpoint(t *testing.T) {
	f := newFixture(t)
	f.createBill(t)
	f.createBill(t)

	w := f.do(t, http.MethodGet, "/api/v1/bills/user?status=placed", "user-1", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Metadata struct {
			Data billapp.BillListResponse `json:"data"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, int64(2), envelope.Metadata.Data.Total)
	assert.Len(t, envelope.Metadata.Data.Bills, 2)
}

func TestListRequiresStatus(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/bills/user", "user-1", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCountByStatusEndpoint(t *testing.T) {
	f := newFixture(t)
	f.createBill(t)

	w := f.do(t, http.MethodGet, "/api/v1/bills/seller/count-total-by-status", "user-2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Metadata struct {
			Data map[string]int64 `json:"data"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Metadata.Data, 6)
	assert.Equal(t, int64(1), envelope.Metadata.Data["PLACED"])
}

func TestCountByStatusRequiresStore(t *testing.T) {
	f := newFixture(t)

	// user-1 is a buyer without a store
	w := f.do(t, http.MethodGet, "/api/v1/bills/seller/count-total-by-status", "user-1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRevenueByMonthEndpoint(t *testing.T) {
	f := newFixture(t)
	f.createBill(t)

	year := time.Now().Year()
	w := f.do(t, http.MethodGet, "/api/v1/bills/seller/calculate-revenue-by-month?year="+
		time.Now().Format("2006"), "user-2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Metadata struct {
			Data billapp.YearRevenueResponse `json:"data"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Metadata.Data.Monthly, 12)
	assert.Equal(t, int64(2900), envelope.Metadata.Data.RevenueTotalInYear, "year %d", year)
	assert.Equal(t, int64(2900), envelope.Metadata.Data.RevenueTotalAllTime)
}

func TestRevenueByMonthRejectsBadYear(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/bills/seller/calculate-revenue-by-month?year=not-a-year", "user-2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestStatisticEndpoint(t *testing.T) {
	f := newFixture(t)
	f.createBill(t)

	start := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)
	w := f.do(t, http.MethodGet, "/api/v1/bills/seller/statistic?type=revenue&startTime="+start, "user-2", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Metadata struct {
			Data []billapp.BillResponse `json:"data"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Metadata.Data, 1)
}

func TestStatisticFiltersByProductType(t *testing.T) {
	f := newFixture(t)
	f.createBill(t)

	start := time.Now().Add(-time.Hour).UTC().Format(time.RFC3339)

	w := f.do(t, http.MethodGet, "/api/v1/bills/seller/statistic?type=coffee&startTime="+start, "user-2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var coffee struct {
		Metadata struct {
			Data []billapp.BillResponse `json:"data"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &coffee))
	assert.Len(t, coffee.Metadata.Data, 1)

	w = f.do(t, http.MethodGet, "/api/v1/bills/seller/statistic?type=electronics&startTime="+start, "user-2", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var none struct {
		Metadata struct {
			Data []billapp.BillResponse `json:"data"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &none))
	assert.Empty(t, none.Metadata.Data)
}

func TestStatisticRequiresTypeAndStart(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/api/v1/bills/seller/statistic?startTime=2023-01-01", "user-2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing type")

	w = f.do(t, http.MethodGet, "/api/v1/bills/seller/statistic?type=revenue", "user-2", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "missing startTime")
}
