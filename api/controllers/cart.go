package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresvelez/golmarket-backend/api/middleware"
	"github.com/andresvelez/golmarket-backend/api/responses"
	"github.com/andresvelez/golmarket-backend/api/validators"
	cartsvc "github.com/andresvelez/golmarket-backend/internal/cart"
	"github.com/andresvelez/golmarket-backend/internal/identity"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
)

// CartFetch returns the caller's current cart with its running totals.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := cartOwner(r, svc, logg, w)
		if err != nil {
			return
		}

		lines, err := svc.GetLines(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartResponse(lines))
	}
}

// CartAdd adds quantity for a (product, variant) pair, merging with any
// existing line.
func CartAdd(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := cartOwner(r, svc, logg, w)
		if err != nil {
			return
		}

		var payload addToCartRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.AddToCart(r.Context(), owner, cartsvc.AddInput{
			ProductID:   payload.ProductID,
			SizeVariant: payload.SizeVariant,
			Quantity:    payload.Quantity,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

// CartSetQuantity overwrites the quantity of one line.
func CartSetQuantity(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := cartOwner(r, svc, logg, w)
		if err != nil {
			return
		}

		var payload setQuantityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		line, err := svc.SetLineQuantity(r.Context(), owner, payload.ProductID, payload.SizeVariant, payload.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, line)
	}
}

// CartRemoveLine deletes one line by id. Removing an unknown line succeeds.
func CartRemoveLine(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := cartOwner(r, svc, logg, w)
		if err != nil {
			return
		}

		lineID := strings.TrimSpace(chi.URLParam(r, "lineId"))
		if lineID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "line id is required"))
			return
		}

		if err := svc.RemoveLine(r.Context(), owner, lineID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

// CartBadge returns the total unit count for the cart icon.
func CartBadge(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := cartOwner(r, svc, logg, w)
		if err != nil {
			return
		}

		total, err := svc.CountTotalItems(r.Context(), owner)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]int{"total_items": total})
	}
}

// CartClear empties the cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		owner, err := cartOwner(r, svc, logg, w)
		if err != nil {
			return
		}

		if err := svc.Clear(r.Context(), owner); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// cartOwner resolves the identity injected by the middleware, writing the
// error response itself when the handler cannot proceed.
func cartOwner(r *http.Request, svc cartsvc.Service, logg *logger.Logger, w http.ResponseWriter) (identity.Identity, error) {
	if svc == nil {
		err := pkgerrors.New(pkgerrors.CodeInternal, "cart service unavailable")
		responses.WriteError(r.Context(), logg, w, err)
		return identity.Identity{}, err
	}
	owner, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		err := pkgerrors.New(pkgerrors.CodeUnauthorized, "cart identity missing")
		responses.WriteError(r.Context(), logg, w, err)
		return identity.Identity{}, err
	}
	return owner, nil
}

type addToCartRequest struct {
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	SizeVariant *string   `json:"size_variant"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
}

type setQuantityRequest struct {
	ProductID   uuid.UUID `json:"product_id" validate:"required"`
	SizeVariant *string   `json:"size_variant"`
	Quantity    int       `json:"quantity" validate:"required,min=1"`
}

type cartResponse struct {
	Items      []cartsvc.Line  `json:"items"`
	TotalItems int             `json:"total_items"`
	Subtotal   decimal.Decimal `json:"subtotal"`
}

func newCartResponse(lines []cartsvc.Line) cartResponse {
	if lines == nil {
		lines = []cartsvc.Line{}
	}
	total := 0
	subtotal := decimal.Zero
	for _, line := range lines {
		total += line.Quantity
		subtotal = subtotal.Add(line.Subtotal())
	}
	return cartResponse{Items: lines, TotalItems: total, Subtotal: subtotal}
}
