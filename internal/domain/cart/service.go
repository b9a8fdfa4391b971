// internal/domain/cart/service.go
package cart

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/your-org/grocery-backend/internal/domain/catalog"
	"github.com/your-org/grocery-backend/internal/domain/pricing"
)

// Service owns the per-session carts and handles cart business logic.
// State is process-lifetime only; carts are gone when the process ends.
type Service struct {
	mu     sync.RWMutex
	carts  map[string]*sessionCart
	engine *pricing.Engine
	logger *logrus.Logger
}

// NewService creates a new cart service
func NewService(engine *pricing.Engine, logger *logrus.Logger) *Service {
	return &Service{
		carts:  make(map[string]*sessionCart),
		engine: engine,
		logger: logger,
	}
}

// CartResponse represents a shopping cart with items and summary
type CartResponse struct {
	SessionID string    `json:"session_id"`
	Items     []Line    `json:"items"`
	PromoCode string    `json:"promo_code,omitempty"`
	Totals    Totals    `json:"totals"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AddItemRequest represents add to cart request
type AddItemRequest struct {
	ProductID int `json:"product_id" binding:"required"`
	Quantity  int `json:"quantity"`
}

// UpdateItemRequest represents update cart item request
type UpdateItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// ApplyPromoRequest represents apply promotion code request
type ApplyPromoRequest struct {
	Code string `json:"code" binding:"required"`
}

// GetCart retrieves the cart for a session, with totals recomputed
func (s *Service) GetCart(sessionID string) *CartResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot(sessionID)
}

// AddItem adds a product to the cart. If a line for the product already
// exists its quantity is incremented; otherwise a new line is inserted.
// A quantity below 1 is treated as 1.
func (s *Service) AddItem(sessionID string, product catalog.Product, quantity int) *CartResponse {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.getOrCreate(sessionID)
	for i := range c.items {
		if c.items[i].ProductID == product.ID {
			c.items[i].Quantity += quantity
			c.updatedAt = time.Now().UTC()
			return s.snapshot(sessionID)
		}
	}

	c.items = append(c.items, Line{
		ProductID: product.ID,
		Name:      product.Name,
		UnitPrice: product.Price,
		ImageURL:  product.ImageURL,
		Category:  product.Category,
		UnitLabel: product.UnitLabel,
		Quantity:  quantity,
		AddedAt:   time.Now().UTC(),
	})
	c.updatedAt = time.Now().UTC()

	s.logger.WithFields(logrus.Fields{
		"session_id": sessionID,
		"product_id": product.ID,
		"quantity":   quantity,
	}).Debug("Cart line added")

	return s.snapshot(sessionID)
}

// UpdateQuantity sets the quantity of an existing line, clamped to a
// minimum of 1. It never removes the line; use RemoveItem for that.
// Unknown product ids are a no-op so UI retries stay idempotent.
func (s *Service) UpdateQuantity(sessionID string, productID, quantity int) *CartResponse {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.getOrCreate(sessionID)
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			c.updatedAt = time.Now().UTC()
			break
		}
	}

	return s.snapshot(sessionID)
}

// RemoveItem deletes a line unconditionally. Removing an absent product
// id is a no-op.
func (s *Service) RemoveItem(sessionID string, productID int) *CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.getOrCreate(sessionID)
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			c.updatedAt = time.Now().UTC()
			break
		}
	}

	return s.snapshot(sessionID)
}

// Clear empties the cart and resets any active promotion code. Used both
// after successful checkout and as an explicit user action; idempotent.
func (s *Service) Clear(sessionID string) *CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.getOrCreate(sessionID)
	c.items = nil
	c.promoCode = ""
	c.updatedAt = time.Now().UTC()

	return s.snapshot(sessionID)
}

// ApplyPromoCode applies a promotion code to the cart. A recognized code
// replaces any previously active one and returns true. An unrecognized
// code returns false and leaves the previous code in effect.
func (s *Service) ApplyPromoCode(sessionID, code string) (bool, *CartResponse) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.getOrCreate(sessionID)
	if !s.engine.Recognizes(code) {
		s.logger.WithFields(logrus.Fields{
			"session_id": sessionID,
			"code":       code,
		}).Debug("Unknown promotion code ignored")
		return false, s.snapshot(sessionID)
	}

	c.promoCode = code
	c.updatedAt = time.Now().UTC()
	return true, s.snapshot(sessionID)
}

// ItemCount returns the total quantity across all lines, for the cart badge
func (s *Service) ItemCount(sessionID string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.carts[sessionID]
	if !ok {
		return 0
	}

	count := 0
	for _, line := range c.items {
		count += line.Quantity
	}
	return count
}

// getOrCreate must be called with the write lock held.
func (s *Service) getOrCreate(sessionID string) *sessionCart {
	if c, ok := s.carts[sessionID]; ok {
		return c
	}
	c := &sessionCart{
		createdAt: time.Now().UTC(),
		updatedAt: time.Now().UTC(),
	}
	s.carts[sessionID] = c
	return c
}

// snapshot builds a response with freshly computed totals. Callers must
// hold at least the read lock.
func (s *Service) snapshot(sessionID string) *CartResponse {
	c, ok := s.carts[sessionID]
	if !ok {
		c = &sessionCart{
			createdAt: time.Now().UTC(),
			updatedAt: time.Now().UTC(),
		}
	}

	items := make([]Line, len(c.items))
	copy(items, c.items)

	return &CartResponse{
		SessionID: sessionID,
		Items:     items,
		PromoCode: c.promoCode,
		Totals:    s.calculateTotals(items, c.promoCode),
		CreatedAt: c.createdAt,
		UpdatedAt: c.updatedAt,
	}
}

// calculateTotals derives all pricing fields from the current lines via
// the pricing engine. Nothing is cached between calls.
func (s *Service) calculateTotals(items []Line, promoCode string) Totals {
	lines := make([]pricing.Line, len(items))
	totalQuantity := 0
	for i, item := range items {
		lines[i] = pricing.Line{UnitPrice: item.UnitPrice, Quantity: item.Quantity}
		totalQuantity += item.Quantity
	}

	subtotal := s.engine.Subtotal(lines)
	deliveryFee := s.engine.DeliveryFee(subtotal)
	discount := s.engine.Discount(subtotal, promoCode)

	return Totals{
		ItemCount:     len(items),
		TotalQuantity: totalQuantity,
		Subtotal:      subtotal,
		DeliveryFee:   deliveryFee,
		Discount:      discount,
		Total:         s.engine.Total(subtotal, deliveryFee, discount),
	}
}
