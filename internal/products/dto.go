package product

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
)

// ProductDTO represents the catalog payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	Category    string           `json:"category"`
	Price       decimal.Decimal  `json:"price"`
	Stock       int              `json:"stock"`
	ImageURLs   []string         `json:"image_urls"`
	SupplierID  *uuid.UUID       `json:"supplier_id,omitempty"`
	IsActive    bool             `json:"is_active"`
	Variants    []SizeVariantDTO `json:"variants,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// SizeVariantDTO exposes per-size availability.
type SizeVariantDTO struct {
	ID                uuid.UUID `json:"id"`
	Variant           string    `json:"variant"`
	QuantityAvailable int       `json:"quantity_available"`
}

func toProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	dto := &ProductDTO{
		ID:          product.ID,
		Name:        product.Name,
		Description: product.Description,
		Category:    product.Category,
		Price:       product.Price,
		Stock:       product.Stock,
		ImageURLs:   product.ImageURLs,
		SupplierID:  product.SupplierID,
		IsActive:    product.IsActive,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
	for _, variant := range product.Variants {
		dto.Variants = append(dto.Variants, SizeVariantDTO{
			ID:                variant.ID,
			Variant:           variant.Variant,
			QuantityAvailable: variant.QuantityAvailable,
		})
	}
	return dto
}
