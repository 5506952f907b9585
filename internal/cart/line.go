package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
)

// Line is the backend-neutral cart entry shared by the account store and the
// guest store. Display fields are snapshotted at add time. At most one line
// exists per (ProductID, SizeVariant) pair within a cart.
type Line struct {
	ID           string          `json:"id"`
	ProductID    uuid.UUID       `json:"product_id"`
	SizeVariant  *string         `json:"size_variant,omitempty"`
	Quantity     int             `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	ProductName  string          `json:"product_name"`
	ProductImage *string         `json:"product_image,omitempty"`
}

// Subtotal returns quantity times the snapshotted unit price.
func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// variantLabel normalizes the optional variant for key comparisons.
func variantLabel(variant *string) string {
	if variant == nil {
		return ""
	}
	return *variant
}

// Matches reports whether the line holds the given (product, variant) pair.
func (l Line) Matches(productID uuid.UUID, sizeVariant *string) bool {
	return l.ProductID == productID && variantLabel(l.SizeVariant) == variantLabel(sizeVariant)
}

func lineFromModel(m models.CartLine) Line {
	return Line{
		ID:           m.ID.String(),
		ProductID:    m.ProductID,
		SizeVariant:  m.SizeVariant,
		Quantity:     m.Quantity,
		UnitPrice:    m.UnitPrice,
		ProductName:  m.ProductName,
		ProductImage: m.ProductImage,
	}
}
