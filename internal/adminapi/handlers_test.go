package adminapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/talkincode/storemom/internal/domain"
	"github.com/talkincode/storemom/internal/webserver"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:api_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(domain.Tables...))
	return db
}

// invoke runs a handler against a synthetic request with the database
// injected the way the webserver middleware does it.
func invoke(t *testing.T, db *gorm.DB, h echo.HandlerFunc, method, target, body string, params map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(webserver.ContextKeyDB, db)
	names := make([]string, 0, len(params))
	values := make([]string, 0, len(params))
	for k, v := range params {
		names = append(names, k)
		values = append(values, v)
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	require.NoError(t, h(c))
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	return m
}

func TestCreateCustomerValidation(t *testing.T) {
	db := newTestDB(t)

	rec := invoke(t, db, createCustomer, http.MethodPost, "/api/customers",
		`{"fname":"Mali"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_NAME", decodeBody(t, rec)["code"])

	rec = invoke(t, db, createCustomer, http.MethodPost, "/api/customers",
		`{"fname":"Mali","lname":"S."}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_PHONE", decodeBody(t, rec)["code"])

	rec = invoke(t, db, createCustomer, http.MethodPost, "/api/customers",
		`{"fname":"Mali","lname":"S.","phone":"081","email":"not-an-email"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_EMAIL", decodeBody(t, rec)["code"])

	rec = invoke(t, db, createCustomer, http.MethodPost, "/api/customers",
		`{"fname":"Mali","lname":"S.","phone":"0812345678","email":"mali@example.com"}`, nil)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestDeleteCustomerWithOrdersConflicts(t *testing.T) {
	db := newTestDB(t)
	cust := domain.StoreCustomer{Fname: "Mali", Lname: "S.", Phone: "081"}
	require.NoError(t, db.Create(&cust).Error)
	require.NoError(t, db.Create(&domain.StoreOrder{CustomerID: cust.ID, Status: domain.OrderStatusPending}).Error)

	rec := invoke(t, db, deleteCustomer, http.MethodDelete, "/api/customers/1", "",
		map[string]string{"id": fmt.Sprint(cust.ID)})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONSTRAINT_VIOLATION", decodeBody(t, rec)["code"])
}

func TestProductCRUD(t *testing.T) {
	db := newTestDB(t)

	rec := invoke(t, db, createProduct, http.MethodPost, "/api/products",
		`{"name":"Jasmine Rice","price":38,"quantity_in_stock":25,"volume":"1kg"}`, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	// sell price defaults to the reference price
	assert.EqualValues(t, 38, body["sell_price"])
	pid := fmt.Sprintf("%.0f", body["id"].(float64))

	rec = invoke(t, db, createProduct, http.MethodPost, "/api/products",
		`{"name":"","price":5}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "MISSING_NAME", decodeBody(t, rec)["code"])

	rec = invoke(t, db, createProduct, http.MethodPost, "/api/products",
		`{"name":"Bad","price":-1}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_PRICE", decodeBody(t, rec)["code"])

	rec = invoke(t, db, listProducts, http.MethodGet, "/api/products?search=rice", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	listBody := decodeBody(t, rec)
	assert.Len(t, listBody["data"], 1)

	rec = invoke(t, db, getProduct, http.MethodGet, "/api/products/"+pid, "",
		map[string]string{"id": pid})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = invoke(t, db, getProduct, http.MethodGet, "/api/products/9999", "",
		map[string]string{"id": "9999"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "PRODUCT_NOT_FOUND", decodeBody(t, rec)["code"])
}

func TestOrderEndpointsLifecycle(t *testing.T) {
	db := newTestDB(t)
	cust := domain.StoreCustomer{Fname: "Mali", Lname: "S.", Phone: "081"}
	require.NoError(t, db.Create(&cust).Error)
	prod := domain.StoreProduct{Name: "Jasmine Rice", Price: 100, SellPrice: 100, QuantityInStock: 10}
	require.NoError(t, db.Create(&prod).Error)

	payload := fmt.Sprintf(`{"customer_id":%d,"items":[{"product_id":%d,"quantity_ordered":3,"price_each":120}]}`,
		cust.ID, prod.ID)
	rec := invoke(t, db, createOrder, http.MethodPost, "/api/orders", payload, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 360, body["total_amount"])
	oid := fmt.Sprintf("%.0f", body["id"].(float64))

	// overselling maps to 400 with the offending product in the detail
	payload = fmt.Sprintf(`{"customer_id":%d,"items":[{"product_id":%d,"quantity_ordered":99,"price_each":120}]}`,
		cust.ID, prod.ID)
	rec = invoke(t, db, createOrder, http.MethodPost, "/api/orders", payload, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	failBody := decodeBody(t, rec)
	assert.Equal(t, "INSUFFICIENT_STOCK", failBody["code"])
	detail := failBody["detail"].(map[string]interface{})
	assert.EqualValues(t, prod.ID, detail["product_id"])
	assert.EqualValues(t, 7, detail["available"])

	rec = invoke(t, db, getOrder, http.MethodGet, "/api/orders/"+oid, "",
		map[string]string{"id": oid})
	require.Equal(t, http.StatusOK, rec.Code)
	detailBody := decodeBody(t, rec)
	assert.Len(t, detailBody["items"], 1)

	rec = invoke(t, db, updateOrder, http.MethodPut, "/api/orders/"+oid,
		`{"status":"completed"}`, map[string]string{"id": oid})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "completed", decodeBody(t, rec)["status"])

	rec = invoke(t, db, deleteOrder, http.MethodDelete, "/api/orders/"+oid, "",
		map[string]string{"id": oid})
	require.Equal(t, http.StatusOK, rec.Code)

	var p domain.StoreProduct
	require.NoError(t, db.First(&p, prod.ID).Error)
	assert.Equal(t, 10, p.QuantityInStock)

	rec = invoke(t, db, getOrder, http.MethodGet, "/api/orders/"+oid, "",
		map[string]string{"id": oid})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "ORDER_NOT_FOUND", decodeBody(t, rec)["code"])
}

func TestCreateOrderDateParsing(t *testing.T) {
	db := newTestDB(t)
	cust := domain.StoreCustomer{Fname: "Mali", Lname: "S.", Phone: "081"}
	require.NoError(t, db.Create(&cust).Error)
	prod := domain.StoreProduct{Name: "Drinking Water", Price: 5, SellPrice: 7, QuantityInStock: 100}
	require.NoError(t, db.Create(&prod).Error)

	for _, date := range []string{"2026-08-30", "2026-08-30T10:15:00Z", "08/30/2026"} {
		payload := fmt.Sprintf(`{"customer_id":%d,"order_date":%q,"items":[{"product_id":%d,"quantity_ordered":1,"price_each":7}]}`,
			cust.ID, date, prod.ID)
		rec := invoke(t, db, createOrder, http.MethodPost, "/api/orders", payload, nil)
		assert.Equal(t, http.StatusCreated, rec.Code, "date %q", date)
	}

	payload := fmt.Sprintf(`{"customer_id":%d,"order_date":"not a date","items":[{"product_id":%d,"quantity_ordered":1,"price_each":7}]}`,
		cust.ID, prod.ID)
	rec := invoke(t, db, createOrder, http.MethodPost, "/api/orders", payload, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_DATE", decodeBody(t, rec)["code"])
}

func TestListOrdersFilters(t *testing.T) {
	db := newTestDB(t)
	cust := domain.StoreCustomer{Fname: "Mali", Lname: "S.", Phone: "081"}
	require.NoError(t, db.Create(&cust).Error)
	prod := domain.StoreProduct{Name: "Drinking Water", Price: 5, SellPrice: 7, QuantityInStock: 100}
	require.NoError(t, db.Create(&prod).Error)

	payload := fmt.Sprintf(`{"customer_id":%d,"items":[{"product_id":%d,"quantity_ordered":1,"price_each":7}]}`,
		cust.ID, prod.ID)
	rec := invoke(t, db, createOrder, http.MethodPost, "/api/orders", payload, nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = invoke(t, db, listOrders, http.MethodGet,
		fmt.Sprintf("/api/orders?customerId=%d&status=pending&productIds=%d", cust.ID, prod.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Len(t, body["data"], 1)
	row := body["data"].([]interface{})[0].(map[string]interface{})
	assert.Equal(t, "Mali S.", row["customer_name"])

	rec = invoke(t, db, listOrders, http.MethodGet, "/api/orders?status=cancelled", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	pagination := decodeBody(t, rec)["pagination"].(map[string]interface{})
	assert.EqualValues(t, 0, pagination["total"])
}
