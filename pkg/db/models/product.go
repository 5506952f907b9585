package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a catalog listing.
type Product struct {
	ID          uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string          `gorm:"column:name;not null"`
	Description *string         `gorm:"column:description"`
	Category    string          `gorm:"column:category;not null"`
	Price       decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null"`
	Stock       int             `gorm:"column:stock;not null;default:0"`
	ImageURLs   pq.StringArray  `gorm:"column:image_urls;type:text[]"`
	SupplierID  *uuid.UUID      `gorm:"column:supplier_id;type:uuid"`
	IsActive    bool            `gorm:"column:is_active;not null;default:true"`
	Variants    []SizeVariant   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// VariantFor returns the size variant matching the given label, if any.
func (p *Product) VariantFor(label string) *SizeVariant {
	if p == nil || label == "" {
		return nil
	}
	for i := range p.Variants {
		if p.Variants[i].Variant == label {
			return &p.Variants[i]
		}
	}
	return nil
}
