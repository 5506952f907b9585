package controllers

import (
	"net/http"

	"github.com/andresvelez/golmarket-backend/api/responses"
	checkoutsvc "github.com/andresvelez/golmarket-backend/internal/checkout"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
)

// AdminPendingOrders lists orders that only reached the local queue, so the
// back office can re-enter them once the row store is back.
func AdminPendingOrders(queue *checkoutsvc.PendingQueue, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if queue == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pending queue unavailable"))
			return
		}

		pending, err := queue.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pending orders"))
			return
		}
		if pending == nil {
			pending = []checkoutsvc.PendingLocalOrder{}
		}
		responses.WriteSuccess(w, pending)
	}
}
