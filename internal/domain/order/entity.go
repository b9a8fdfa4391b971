// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status represents the order status
type Status string

const (
	StatusPending             Status = "pending"
	StatusConfirmed           Status = "confirmed"
	StatusPreparing           Status = "preparing"
	StatusOnTheWay            Status = "on_the_way"
	StatusDelivered           Status = "delivered"
	StatusDeliveredByShopper  Status = "delivered_by_shopper"
	StatusConfirmedByCustomer Status = "confirmed_by_customer"
	StatusCancelled           Status = "cancelled"
)

// DeliveryMethod selects the fulfillment variant and with it the tail of
// the status pipeline.
type DeliveryMethod string

const (
	// DeliveryStandard is direct delivery, ending in delivered.
	DeliveryStandard DeliveryMethod = "standard"
	// DeliveryShopper is shopper-fulfilled delivery, ending in
	// delivered_by_shopper and requiring customer confirmation.
	DeliveryShopper DeliveryMethod = "shopper"
)

// Order is an immutable snapshot of cart contents and pricing taken at
// checkout. Only Status and CustomerConfirmedAt change afterwards.
type Order struct {
	ID                  string          `json:"id"`
	OrderNumber         int64           `json:"order_number"`
	Items               []Line          `json:"items"`
	Subtotal            decimal.Decimal `json:"subtotal"`
	DeliveryFee         decimal.Decimal `json:"delivery_fee"`
	Discount            decimal.Decimal `json:"discount"`
	Total               decimal.Decimal `json:"total"`
	PromoCode           string          `json:"promo_code,omitempty"`
	StoreName           string          `json:"store_name"`
	DeliveryAddress     string          `json:"delivery_address"`
	PaymentMethodName   string          `json:"payment_method_name"`
	DeliveryMethod      DeliveryMethod  `json:"delivery_method"`
	Status              Status          `json:"status"`
	CreatedAt           time.Time       `json:"created_at"`
	CustomerConfirmedAt *time.Time      `json:"customer_confirmed_at,omitempty"`
}

// Line is a frozen copy of a cart line at order-creation time. It is
// never re-derived from the live catalog.
type Line struct {
	ProductID int             `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	UnitLabel string          `json:"unit_label"`
	ImageURL  string          `json:"image_url"`
}

// IsTerminal reports whether no further transitions apply to the status.
func (s Status) IsTerminal() bool {
	return s == StatusDelivered || s == StatusConfirmedByCustomer || s == StatusCancelled
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusOnTheWay,
		StatusDelivered, StatusDeliveredByShopper, StatusConfirmedByCustomer,
		StatusCancelled:
		return true
	}
	return false
}

// NextStatus returns the next forward step in the pipeline for the given
// delivery method. ok is false when the status has no simulator-driven
// successor (terminal states and delivered_by_shopper, which waits for
// the customer).
func NextStatus(current Status, method DeliveryMethod) (Status, bool) {
	switch current {
	case StatusPending:
		return StatusConfirmed, true
	case StatusConfirmed:
		return StatusPreparing, true
	case StatusPreparing:
		return StatusOnTheWay, true
	case StatusOnTheWay:
		if method == DeliveryShopper {
			return StatusDeliveredByShopper, true
		}
		return StatusDelivered, true
	}
	return current, false
}

// CanBeCancelled reports whether the order is still in a non-terminal state
func (o *Order) CanBeCancelled() bool {
	return !o.Status.IsTerminal()
}
