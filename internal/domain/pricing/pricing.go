// internal/domain/pricing/pricing.go
package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Line is the minimal view of a cart line the engine prices against.
type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

// Engine computes cart totals. It is stateless: every value is derived
// from the lines passed in, nothing is cached between calls.
type Engine struct {
	deliveryFee decimal.Decimal
	promotions  map[string]decimal.Decimal // normalized code -> discount rate
}

// NewEngine creates a pricing engine with the given flat delivery fee and
// promotion table. Promotion codes are matched case-insensitively.
func NewEngine(deliveryFee decimal.Decimal, promotions map[string]decimal.Decimal) *Engine {
	normalized := make(map[string]decimal.Decimal, len(promotions))
	for code, rate := range promotions {
		normalized[normalizeCode(code)] = rate
	}
	return &Engine{
		deliveryFee: deliveryFee,
		promotions:  normalized,
	}
}

// Subtotal returns the sum of unit price times quantity over all lines.
func (e *Engine) Subtotal(lines []Line) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return subtotal.Round(2)
}

// DeliveryFee returns the flat delivery fee for a non-empty cart and zero
// for an empty one. The fee is not distance-based.
func (e *Engine) DeliveryFee(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.IsPositive() {
		return e.deliveryFee
	}
	return decimal.Zero
}

// Discount returns rate x subtotal for a recognized promotion code and
// zero otherwise. Unknown codes are not an error.
func (e *Engine) Discount(subtotal decimal.Decimal, promoCode string) decimal.Decimal {
	rate, ok := e.promotions[normalizeCode(promoCode)]
	if !ok {
		return decimal.Zero
	}
	return subtotal.Mul(rate).Round(2)
}

// Total returns subtotal + delivery fee - discount, clamped at zero.
func (e *Engine) Total(subtotal, deliveryFee, discount decimal.Decimal) decimal.Decimal {
	total := subtotal.Add(deliveryFee).Sub(discount)
	if total.IsNegative() {
		return decimal.Zero
	}
	return total.Round(2)
}

// Recognizes reports whether the given promotion code is in the table.
func (e *Engine) Recognizes(promoCode string) bool {
	_, ok := e.promotions[normalizeCode(promoCode)]
	return ok
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
