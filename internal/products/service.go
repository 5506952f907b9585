package product

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog browsing and back-office product management.
type Service interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error)
	ListCatalog(ctx context.Context, filter ListFilter) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeactivateProduct(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	repo ProductRepository
	tx   txRunner
}

// NewService builds a product service backed by the provided stack.
func NewService(repo ProductRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name        string
	Description *string
	Category    string
	Price       decimal.Decimal
	Stock       int
	ImageURLs   []string
	SupplierID  *uuid.UUID
	Variants    []VariantInput
}

// VariantInput captures one size's starting availability.
type VariantInput struct {
	Variant           string
	QuantityAvailable int
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name        *string
	Description *string
	Category    *string
	Price       *decimal.Decimal
	Stock       *int
	ImageURLs   *[]string
	SupplierID  *uuid.UUID
	IsActive    *bool
	Variants    *[]VariantInput
}

// GetProduct returns the product detail including size variants.
func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*ProductDTO, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProductDTO(product), nil
}

// ListCatalog returns active products matching the filter.
func (s *service) ListCatalog(ctx context.Context, filter ListFilter) ([]ProductDTO, error) {
	products, err := s.repo.ListActive(ctx, filter)
	if err != nil {
		return nil, err
	}
	dtos := make([]ProductDTO, 0, len(products))
	for i := range products {
		dtos = append(dtos, *toProductDTO(&products[i]))
	}
	return dtos, nil
}

// CreateProduct validates and persists a product with its variants.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	record := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		Category:    strings.TrimSpace(input.Category),
		Price:       input.Price,
		Stock:       input.Stock,
		ImageURLs:   input.ImageURLs,
		SupplierID:  input.SupplierID,
		IsActive:    true,
	}
	for _, variant := range input.Variants {
		record.Variants = append(record.Variants, models.SizeVariant{
			Variant:           variant.Variant,
			QuantityAvailable: variant.QuantityAvailable,
		})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).Create(ctx, record)
		return err
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "creating product")
	}
	return toProductDTO(record), nil
}

// UpdateProduct applies the provided changes to an existing product.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	applyUpdate(product, input)
	if product.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	if product.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.Update(ctx, product); err != nil {
			return err
		}
		if input.Variants != nil {
			variants := make([]models.SizeVariant, 0, len(*input.Variants))
			for _, variant := range *input.Variants {
				if variant.QuantityAvailable < 0 {
					return pkgerrors.New(pkgerrors.CodeValidation, "variant availability must be non-negative")
				}
				variants = append(variants, models.SizeVariant{
					Variant:           variant.Variant,
					QuantityAvailable: variant.QuantityAvailable,
				})
			}
			if err := repo.ReplaceVariants(ctx, productID, variants); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "updating product")
	}

	updated, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	return toProductDTO(updated), nil
}

// DeactivateProduct hides a product from the catalog.
func (s *service) DeactivateProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return s.repo.Deactivate(ctx, productID)
}

func validateCreateInput(input CreateProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product name is required")
	}
	if strings.TrimSpace(input.Category) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product category is required")
	}
	if input.Price.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must be non-negative")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must be non-negative")
	}
	seen := map[string]struct{}{}
	for _, variant := range input.Variants {
		label := strings.TrimSpace(variant.Variant)
		if label == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant label is required")
		}
		if _, dup := seen[label]; dup {
			return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("duplicate variant %q", label))
		}
		seen[label] = struct{}{}
		if variant.QuantityAvailable < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant availability must be non-negative")
		}
	}
	return nil
}

func applyUpdate(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		product.Price = *input.Price
	}
	if input.Stock != nil {
		product.Stock = *input.Stock
	}
	if input.ImageURLs != nil {
		product.ImageURLs = *input.ImageURLs
	}
	if input.SupplierID != nil {
		product.SupplierID = input.SupplierID
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
}
