// internal/domain/checkout/service.go
package checkout

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/domain/cart"
	"github.com/your-org/grocery-backend/internal/domain/dispatch"
	"github.com/your-org/grocery-backend/internal/domain/order"
)

// Service turns a cart into a placed order: it freezes the cart lines
// and pricing into an order snapshot, clears the cart, and hands the new
// order to the dispatch simulator. Payment is taken on name only; there
// is no gateway behind it.
type Service struct {
	cartService  *cart.Service
	orderService *order.Service
	simulator    *dispatch.Simulator
	logger       *logrus.Logger
}

// NewService creates a new checkout service
func NewService(cartService *cart.Service, orderService *order.Service, simulator *dispatch.Simulator, logger *logrus.Logger) *Service {
	return &Service{
		cartService:  cartService,
		orderService: orderService,
		simulator:    simulator,
		logger:       logger,
	}
}

// PlaceOrderRequest represents checkout data supplied by the client
type PlaceOrderRequest struct {
	StoreName         string               `json:"store_name" binding:"required"`
	DeliveryAddress   string               `json:"delivery_address" binding:"required"`
	PaymentMethodName string               `json:"payment_method_name" binding:"required"`
	DeliveryMethod    order.DeliveryMethod `json:"delivery_method" binding:"required,oneof=standard shopper"`
}

// PlaceOrder creates an order from the session's cart and clears the
// cart. The order is an immutable snapshot: cart changes made after this
// call never affect it.
func (s *Service) PlaceOrder(sessionID string, req *PlaceOrderRequest) (*order.Order, error) {
	cartResponse := s.cartService.GetCart(sessionID)
	if len(cartResponse.Items) == 0 {
		return nil, fmt.Errorf("cart is empty")
	}

	items := make([]order.Line, len(cartResponse.Items))
	for i, line := range cartResponse.Items {
		items[i] = order.Line{
			ProductID: line.ProductID,
			Name:      line.Name,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			UnitLabel: line.UnitLabel,
			ImageURL:  line.ImageURL,
		}
	}

	o := s.orderService.Create(order.Snapshot{
		Items:             items,
		Subtotal:          cartResponse.Totals.Subtotal,
		DeliveryFee:       cartResponse.Totals.DeliveryFee,
		Discount:          cartResponse.Totals.Discount,
		Total:             cartResponse.Totals.Total,
		PromoCode:         cartResponse.PromoCode,
		StoreName:         req.StoreName,
		DeliveryAddress:   req.DeliveryAddress,
		PaymentMethodName: req.PaymentMethodName,
		DeliveryMethod:    req.DeliveryMethod,
	})

	s.cartService.Clear(sessionID)
	s.simulator.Track(o.ID)

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"order_id":   o.ID,
		"total":      o.Total,
	}).Info("Checkout completed")

	return o, nil
}
