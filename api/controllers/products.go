package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresvelez/golmarket-backend/api/responses"
	"github.com/andresvelez/golmarket-backend/api/validators"
	product "github.com/andresvelez/golmarket-backend/internal/products"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
)

const (
	catalogDefaultLimit = 24
	catalogMaxLimit     = 100
)

// CatalogList returns active products, optionally filtered by category or search.
func CatalogList(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", catalogDefaultLimit, 1, catalogMaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		offset, err := validators.ParseQueryInt(r, "offset", 0, 0, 1<<30)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		filter := product.ListFilter{
			Category: strings.TrimSpace(r.URL.Query().Get("category")),
			Search:   strings.TrimSpace(r.URL.Query().Get("search")),
			Limit:    limit,
			Offset:   offset,
		}

		items, err := svc.ListCatalog(r.Context(), filter)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// CatalogDetail returns one product including its size variants.
func CatalogDetail(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AdminCreateProduct registers a new catalog product.
func AdminCreateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, dto)
	}
}

// AdminUpdateProduct applies a partial update to a product.
func AdminUpdateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		dto, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, dto)
	}
}

// AdminDeactivateProduct hides a product from the catalog without deleting it.
func AdminDeactivateProduct(svc product.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeactivateProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deactivated"})
	}
}

type createProductRequest struct {
	Name        string                  `json:"name" validate:"required"`
	Description *string                 `json:"description"`
	Category    string                  `json:"category" validate:"required"`
	Price       string                  `json:"price" validate:"required"`
	Stock       int                     `json:"stock" validate:"min=0"`
	ImageURLs   []string                `json:"image_urls"`
	SupplierID  *uuid.UUID              `json:"supplier_id"`
	Variants    []variantRequestPayload `json:"variants" validate:"dive"`
}

type variantRequestPayload struct {
	Variant           string `json:"variant" validate:"required"`
	QuantityAvailable int    `json:"quantity_available" validate:"min=0"`
}

func (p createProductRequest) toInput() (product.CreateProductInput, error) {
	price, err := decimal.NewFromString(p.Price)
	if err != nil {
		return product.CreateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
	}

	variants := make([]product.VariantInput, len(p.Variants))
	for i, v := range p.Variants {
		variants[i] = product.VariantInput{
			Variant:           v.Variant,
			QuantityAvailable: v.QuantityAvailable,
		}
	}

	return product.CreateProductInput{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Price:       price,
		Stock:       p.Stock,
		ImageURLs:   p.ImageURLs,
		SupplierID:  p.SupplierID,
		Variants:    variants,
	}, nil
}

type updateProductRequest struct {
	Name        *string                  `json:"name"`
	Description *string                  `json:"description"`
	Category    *string                  `json:"category"`
	Price       *string                  `json:"price"`
	Stock       *int                     `json:"stock"`
	ImageURLs   *[]string                `json:"image_urls"`
	SupplierID  *uuid.UUID               `json:"supplier_id"`
	IsActive    *bool                    `json:"is_active"`
	Variants    *[]variantRequestPayload `json:"variants" validate:"omitempty,dive"`
}

func (p updateProductRequest) toInput() (product.UpdateProductInput, error) {
	input := product.UpdateProductInput{
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Stock:       p.Stock,
		ImageURLs:   p.ImageURLs,
		SupplierID:  p.SupplierID,
		IsActive:    p.IsActive,
	}

	if p.Price != nil {
		price, err := decimal.NewFromString(*p.Price)
		if err != nil {
			return product.UpdateProductInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price")
		}
		input.Price = &price
	}

	if p.Variants != nil {
		variants := make([]product.VariantInput, len(*p.Variants))
		for i, v := range *p.Variants {
			variants[i] = product.VariantInput{
				Variant:           v.Variant,
				QuantityAvailable: v.QuantityAvailable,
			}
		}
		input.Variants = &variants
	}

	return input, nil
}

func parsePathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, param))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, param+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+param)
	}
	return id, nil
}
