package models

import (
	"time"

	"github.com/google/uuid"
)

// Supplier is a merchandise provider managed from the back office.
type Supplier struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string    `gorm:"column:name;not null"`
	ContactName *string   `gorm:"column:contact_name"`
	Phone       *string   `gorm:"column:phone"`
	TaxID       *string   `gorm:"column:tax_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
