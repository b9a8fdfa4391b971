// internal/domain/catalog/entity.go
package catalog

import (
	"github.com/shopspring/decimal"
)

// Product represents a product record supplied by the catalog source.
// The cart treats these as opaque value objects.
type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	ImageURL  string          `json:"image_url"`
	UnitLabel string          `json:"unit_label"`
}
