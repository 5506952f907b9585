package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresvelez/golmarket-backend/pkg/enums"
)

// Order is the customer order header. The id is generated client-side before
// any write so the fallback tiers and the WhatsApp message all share it.
type Order struct {
	ID              uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	CustomerName    string              `gorm:"column:customer_name;not null"`
	CustomerPhone   string              `gorm:"column:customer_phone;not null"`
	ShippingAddress string              `gorm:"column:shipping_address;not null"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;not null"`
	Status          enums.OrderStatus   `gorm:"column:status;not null;default:'pending'"`
	Total           decimal.Decimal     `gorm:"column:total;type:numeric(12,2);not null"`
	UserID          *uuid.UUID          `gorm:"column:user_id;type:uuid"`
	Lines           []OrderLine         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
