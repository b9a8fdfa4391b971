package checkout

import (
	"io"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/catalog"
	"github.com/your-org/grocery-backend/internal/domain/dispatch"
	"github.com/your-org/grocery-backend/internal/domain/order"
	"github.com/your-org/grocery-backend/internal/domain/pricing"
)

const testSession = "test-session"

func newTestLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type testEnv struct {
	carts     *cart.Service
	orders    *order.Service
	simulator *dispatch.Simulator
	checkout  *Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := newTestLogger()

	engine := pricing.NewEngine(decimal.NewFromInt(5), map[string]decimal.Decimal{
		"SAVE10": decimal.NewFromFloat(0.10),
	})
	carts := cart.NewService(engine, logger)
	orders := order.NewService(order.NewSequenceSource(100000), logger)
	// Long interval so no simulated step fires during a test.
	simulator := dispatch.NewSimulator(orders, time.Hour, logger)
	t.Cleanup(simulator.Stop)

	return &testEnv{
		carts:     carts,
		orders:    orders,
		simulator: simulator,
		checkout:  NewService(carts, orders, simulator, logger),
	}
}

func testRequest() *PlaceOrderRequest {
	return &PlaceOrderRequest{
		StoreName:         "FreshMart Downtown",
		DeliveryAddress:   "12 Elm Street",
		PaymentMethodName: "Credit Card",
		DeliveryMethod:    order.DeliveryStandard,
	}
}

func fillCart(env *testEnv) {
	env.carts.AddItem(testSession, catalog.Product{
		ID: 1, Name: "Bananas", Price: decimal.RequireFromString("12.5"), UnitLabel: "1 kg",
	}, 2)
	env.carts.AddItem(testSession, catalog.Product{
		ID: 2, Name: "Whole Milk", Price: decimal.RequireFromString("8.0"), UnitLabel: "1 L",
	}, 1)
}

func TestPlaceOrderFromEmptyCart(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.checkout.PlaceOrder(testSession, testRequest())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cart is empty")
}

func TestPlaceOrderSnapshotsCartAndPricing(t *testing.T) {
	env := newTestEnv(t)
	fillCart(env)

	o, err := env.checkout.PlaceOrder(testSession, testRequest())
	require.NoError(t, err)

	assert.Equal(t, order.StatusPending, o.Status)
	assert.Equal(t, "FreshMart Downtown", o.StoreName)
	assert.Equal(t, "12 Elm Street", o.DeliveryAddress)
	assert.Equal(t, "Credit Card", o.PaymentMethodName)
	assert.Equal(t, order.DeliveryStandard, o.DeliveryMethod)

	require.Len(t, o.Items, 2)
	assert.True(t, o.Subtotal.Equal(decimal.RequireFromString("33.00")), "got %s", o.Subtotal)
	assert.True(t, o.DeliveryFee.Equal(decimal.NewFromInt(5)))
	assert.True(t, o.Total.Equal(decimal.RequireFromString("38.00")), "got %s", o.Total)
}

func TestPlaceOrderCarriesPromotion(t *testing.T) {
	env := newTestEnv(t)
	fillCart(env)

	applied, _ := env.carts.ApplyPromoCode(testSession, "SAVE10")
	require.True(t, applied)

	o, err := env.checkout.PlaceOrder(testSession, testRequest())
	require.NoError(t, err)

	assert.Equal(t, "SAVE10", o.PromoCode)
	assert.True(t, o.Discount.Equal(decimal.RequireFromString("3.30")), "got %s", o.Discount)
	assert.True(t, o.Total.Equal(decimal.RequireFromString("34.70")), "got %s", o.Total)
}

func TestPlaceOrderClearsCart(t *testing.T) {
	env := newTestEnv(t)
	fillCart(env)
	env.carts.ApplyPromoCode(testSession, "SAVE10")

	_, err := env.checkout.PlaceOrder(testSession, testRequest())
	require.NoError(t, err)

	resp := env.carts.GetCart(testSession)
	assert.Empty(t, resp.Items)
	assert.Empty(t, resp.PromoCode)
}

func TestLaterCartChangesDoNotAffectPlacedOrder(t *testing.T) {
	env := newTestEnv(t)
	fillCart(env)

	o, err := env.checkout.PlaceOrder(testSession, testRequest())
	require.NoError(t, err)

	// Refill and mutate the cart after checkout.
	fillCart(env)
	env.carts.UpdateQuantity(testSession, 1, 50)

	got, ok := env.orders.Get(o.ID)
	require.True(t, ok)
	require.Len(t, got.Items, 2)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("38.00")), "got %s", got.Total)
}

func TestPlaceOrderRegistersOrderInList(t *testing.T) {
	env := newTestEnv(t)
	fillCart(env)

	o, err := env.checkout.PlaceOrder(testSession, testRequest())
	require.NoError(t, err)

	orders := env.orders.List()
	require.Len(t, orders, 1)
	assert.Equal(t, o.ID, orders[0].ID)
}
