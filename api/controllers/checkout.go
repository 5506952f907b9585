package controllers

import (
	"net/http"

	"github.com/andresvelez/golmarket-backend/api/middleware"
	"github.com/andresvelez/golmarket-backend/api/responses"
	"github.com/andresvelez/golmarket-backend/api/validators"
	checkoutsvc "github.com/andresvelez/golmarket-backend/internal/checkout"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
)

// Checkout submits the caller's cart as an order and returns the WhatsApp
// handoff link. A degraded result means the order only reached the local
// pending queue; the client still gets the link.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		owner, ok := middleware.IdentityFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "checkout identity missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Submit(r.Context(), owner, checkoutsvc.SubmitInput{
			CustomerName:    payload.CustomerName,
			CustomerPhone:   payload.CustomerPhone,
			ShippingAddress: payload.ShippingAddress,
			PaymentMethod:   payload.PaymentMethod,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if result.Degraded {
			responses.WriteSuccessStatus(w, http.StatusAccepted, result)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

type checkoutRequest struct {
	CustomerName    string `json:"customer_name" validate:"required"`
	CustomerPhone   string `json:"customer_phone" validate:"required"`
	ShippingAddress string `json:"shipping_address" validate:"required"`
	PaymentMethod   string `json:"payment_method" validate:"required"`
}
