package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/catalog"
	"github.com/your-org/grocery-backend/internal/domain/checkout"
	"github.com/your-org/grocery-backend/internal/domain/dispatch"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/pricing"
)

type testAPI struct {
	router *gin.Engine
	orders *order.Service
	cookie *http.Cookie
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	catalogService := catalog.NewService()
	engine := pricing.NewEngine(decimal.NewFromInt(5), map[string]decimal.Decimal{
		"SAVE10": decimal.NewFromFloat(0.10),
	})
	cartService := cart.NewService(engine, logger)
	orderService := order.NewService(order.NewSequenceSource(100000), logger)
	simulator := dispatch.NewSimulator(orderService, time.Hour, logger)
	t.Cleanup(simulator.Stop)
	checkoutService := checkout.NewService(cartService, orderService, simulator, logger)

	router := gin.New()
	SetupRoutes(router.Group("/api/v1"), Services{
		Catalog:  catalogService,
		Cart:     cartService,
		Checkout: checkoutService,
		Orders:   orderService,
	})

	return &testAPI{router: router, orders: orderService}
}

// do performs a request, carrying the cart session cookie across calls.
func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.cookie != nil {
		req.AddCookie(a.cookie)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.Name == "session_id" {
			a.cookie = c
		}
	}
	return w
}

func dataField(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body struct {
		Data map[string]any `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Data
}

func TestGetProducts(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/products", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/products?category=Fruits", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []catalog.Product `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Data)
	for _, p := range body.Data {
		assert.Equal(t, "Fruits", p.Category)
	}
}

func TestGetProductNotFound(t *testing.T) {
	api := newTestAPI(t)

	w := api.do(t, http.MethodGet, "/api/v1/products/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartFlow(t *testing.T) {
	api := newTestAPI(t)

	// Add two products.
	w := api.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1, "quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 9, "quantity": 1})
	require.Equal(t, http.StatusOK, w.Code)

	data := dataField(t, w)
	items := data["items"].([]any)
	require.Len(t, items, 2)

	// Unknown product is rejected before it reaches the cart.
	w = api.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 999, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Quantity updates clamp at 1.
	w = api.do(t, http.MethodPut, "/api/v1/cart/items/1", gin.H{"quantity": -3})
	require.Equal(t, http.StatusOK, w.Code)
	data = dataField(t, w)
	first := data["items"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(1), first["quantity"])

	// Badge count sums quantities.
	w = api.do(t, http.MethodGet, "/api/v1/cart/count", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(2), dataField(t, w)["count"])

	// Remove one line.
	w = api.do(t, http.MethodDelete, "/api/v1/cart/items/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = dataField(t, w)
	require.Len(t, data["items"].([]any), 1)

	// Clear the rest.
	w = api.do(t, http.MethodDelete, "/api/v1/cart", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, dataField(t, w)["items"])
}

func TestPromoCodeEndpoint(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1, "quantity": 2})

	w := api.do(t, http.MethodPost, "/api/v1/cart/promo", gin.H{"code": "SAVE10"})
	require.Equal(t, http.StatusOK, w.Code)

	// An unknown code is rejected but leaves SAVE10 in effect.
	w = api.do(t, http.MethodPost, "/api/v1/cart/promo", gin.H{"code": "BOGUS"})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "SAVE10", dataField(t, w)["promo_code"])
}

func TestCheckoutFlow(t *testing.T) {
	api := newTestAPI(t)

	// Checkout with an empty cart is rejected.
	w := api.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"store_name":          "FreshMart Downtown",
		"delivery_address":    "12 Elm Street",
		"payment_method_name": "Credit Card",
		"delivery_method":     "standard",
	})
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Missing delivery address fails binding.
	api.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1, "quantity": 2})
	w = api.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"store_name":          "FreshMart Downtown",
		"payment_method_name": "Credit Card",
		"delivery_method":     "standard",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	// Successful checkout creates a pending order and clears the cart.
	w = api.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"store_name":          "FreshMart Downtown",
		"delivery_address":    "12 Elm Street",
		"payment_method_name": "Credit Card",
		"delivery_method":     "standard",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	data := dataField(t, w)
	orderID := data["id"].(string)
	assert.Equal(t, "pending", data["status"])

	w = api.do(t, http.MethodGet, "/api/v1/cart", nil)
	assert.Empty(t, dataField(t, w)["items"])

	// The order is visible in the list and by id.
	w = api.do(t, http.MethodGet, "/api/v1/orders", nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/orders/"+orderID, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestOrderStatusEndpoints(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1, "quantity": 1})
	w := api.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"store_name":          "FreshMart Downtown",
		"delivery_address":    "12 Elm Street",
		"payment_method_name": "Cash",
		"delivery_method":     "shopper",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := dataField(t, w)["id"].(string)

	// Confirming before delivered_by_shopper is a no-op.
	w = api.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/confirm-delivery", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Push the order to delivered_by_shopper, then confirm.
	w = api.do(t, http.MethodPut, "/api/v1/orders/"+orderID+"/status", gin.H{"status": "delivered_by_shopper"})
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodPost, "/api/v1/orders/"+orderID+"/confirm-delivery", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := dataField(t, w)
	assert.Equal(t, "confirmed_by_customer", data["status"])
	assert.NotNil(t, data["customer_confirmed_at"])

	// Terminal orders cannot be cancelled.
	w = api.do(t, http.MethodPut, "/api/v1/orders/"+orderID+"/cancel", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	// Unknown status values are rejected.
	w = api.do(t, http.MethodPut, "/api/v1/orders/"+orderID+"/status", gin.H{"status": "teleported"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Unknown order ids are not found.
	w = api.do(t, http.MethodPut, "/api/v1/orders/GRD-999999/status", gin.H{"status": "confirmed"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCancelOrder(t *testing.T) {
	api := newTestAPI(t)

	api.do(t, http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": 1, "quantity": 1})
	w := api.do(t, http.MethodPost, "/api/v1/checkout", gin.H{
		"store_name":          "FreshMart Downtown",
		"delivery_address":    "12 Elm Street",
		"payment_method_name": "Cash",
		"delivery_method":     "standard",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	orderID := dataField(t, w)["id"].(string)

	w = api.do(t, http.MethodPut, "/api/v1/orders/"+orderID+"/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cancelled", dataField(t, w)["status"])
}
