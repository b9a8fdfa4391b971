// internal/domain/order/service.go
package order

import (
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// idPrefix is combined with the order number to form the order id.
const idPrefix = "GRD-"

// Service owns the list of placed orders for the session. Orders live in
// memory only and are destroyed at process end.
type Service struct {
	mu      sync.RWMutex
	orders  []*Order          // most-recent-first
	byID    map[string]*Order
	numbers NumberSource
	logger  *logrus.Logger
}

// NewService creates a new order service
func NewService(numbers NumberSource, logger *logrus.Logger) *Service {
	return &Service{
		byID:    make(map[string]*Order),
		numbers: numbers,
		logger:  logger,
	}
}

// Snapshot carries everything an order is created from. The items and
// pricing are frozen copies; later cart changes never reach the order.
type Snapshot struct {
	Items             []Line
	Subtotal          decimal.Decimal
	DeliveryFee       decimal.Decimal
	Discount          decimal.Decimal
	Total             decimal.Decimal
	PromoCode         string
	StoreName         string
	DeliveryAddress   string
	PaymentMethodName string
	DeliveryMethod    DeliveryMethod
}

// Create constructs a new pending order from the snapshot, assigns a
// fresh order number and id, and prepends it to the order list.
// Most-recent-first ordering is part of the contract: consumers render
// the list without re-sorting.
func (s *Service) Create(snapshot Snapshot) *Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	number := s.numbers.Next()
	id := fmt.Sprintf("%s%d", idPrefix, number)
	for _, exists := s.byID[id]; exists; _, exists = s.byID[id] {
		number = s.numbers.Next()
		id = fmt.Sprintf("%s%d", idPrefix, number)
	}

	items := make([]Line, len(snapshot.Items))
	copy(items, snapshot.Items)

	o := &Order{
		ID:                id,
		OrderNumber:       number,
		Items:             items,
		Subtotal:          snapshot.Subtotal,
		DeliveryFee:       snapshot.DeliveryFee,
		Discount:          snapshot.Discount,
		Total:             snapshot.Total,
		PromoCode:         snapshot.PromoCode,
		StoreName:         snapshot.StoreName,
		DeliveryAddress:   snapshot.DeliveryAddress,
		PaymentMethodName: snapshot.PaymentMethodName,
		DeliveryMethod:    snapshot.DeliveryMethod,
		Status:            StatusPending,
		CreatedAt:         time.Now().UTC(),
	}

	s.orders = append([]*Order{o}, s.orders...)
	s.byID[id] = o

	s.logger.WithFields(logrus.Fields{
		"order_id":     id,
		"order_number": number,
		"total":        o.Total,
		"items":        len(o.Items),
	}).Info("Order created")

	return copyOrder(o)
}

// List returns all orders, most recent first
func (s *Service) List() []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]Order, len(s.orders))
	for i, o := range s.orders {
		orders[i] = *copyOrder(o)
	}
	return orders
}

// Get retrieves a single order by id
func (s *Service) Get(id string) (Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.byID[id]
	if !ok {
		return Order{}, false
	}
	return *copyOrder(o), true
}

// UpdateStatus overwrites the status of the matching order. Unknown ids
// are a no-op. Forward-transition legality is not validated here; the
// callers (simulator, customer confirmation) respect the state machine.
func (s *Service) UpdateStatus(id string, status Status) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byID[id]
	if !ok {
		return false
	}

	previous := o.Status
	o.Status = status

	s.logger.WithFields(logrus.Fields{
		"order_id": id,
		"from":     previous,
		"to":       status,
	}).Info("Order status updated")

	return true
}

// ConfirmDeliveryByCustomer moves an order from delivered_by_shopper to
// confirmed_by_customer and stamps the confirmation time. Calling it in
// any other status is a no-op.
func (s *Service) ConfirmDeliveryByCustomer(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byID[id]
	if !ok || o.Status != StatusDeliveredByShopper {
		return false
	}

	now := time.Now().UTC()
	o.Status = StatusConfirmedByCustomer
	o.CustomerConfirmedAt = &now

	s.logger.WithField("order_id", id).Info("Delivery confirmed by customer")
	return true
}

// Cancel moves any non-terminal order to cancelled. Terminal orders and
// unknown ids are a no-op.
func (s *Service) Cancel(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.byID[id]
	if !ok || !o.CanBeCancelled() {
		return false
	}

	o.Status = StatusCancelled
	s.logger.WithField("order_id", id).Info("Order cancelled")
	return true
}

// copyOrder returns a defensive copy so callers cannot reach the stored
// order's items slice.
func copyOrder(o *Order) *Order {
	clone := *o
	clone.Items = make([]Line, len(o.Items))
	copy(clone.Items, o.Items)
	if o.CustomerConfirmedAt != nil {
		t := *o.CustomerConfirmedAt
		clone.CustomerConfirmedAt = &t
	}
	return &clone
}
