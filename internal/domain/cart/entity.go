// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/shopspring/decimal"
)

// Line represents one product entry in a cart, uniquely keyed by product
// id. Quantity never drops below 1; removal is always explicit.
type Line struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	ImageURL  string          `json:"image_url"`
	Category  string          `json:"category"`
	UnitLabel string          `json:"unit_label"`
	Quantity  int             `json:"quantity"`
	AddedAt   time.Time       `json:"added_at"`
}

// Totals represents calculated cart totals
type Totals struct {
	ItemCount     int             `json:"item_count"`     // Number of unique items
	TotalQuantity int             `json:"total_quantity"` // Sum of all quantities
	Subtotal      decimal.Decimal `json:"subtotal"`
	DeliveryFee   decimal.Decimal `json:"delivery_fee"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
}

// sessionCart is the mutable per-session state owned by the Service.
type sessionCart struct {
	items     []Line
	promoCode string // active promotion code, empty if none
	createdAt time.Time
	updatedAt time.Time
}
