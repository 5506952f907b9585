package models

import (
	"time"

	"github.com/google/uuid"
)

// SizeVariant tracks per-size availability for a product. Variant stock is
// maintained independently from the parent product's aggregate stock field.
type SizeVariant struct {
	ID                uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID         uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	Variant           string    `gorm:"column:variant;not null"`
	QuantityAvailable int       `gorm:"column:quantity_available;not null;default:0"`
	UpdatedAt         time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
