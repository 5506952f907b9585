package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
	"github.com/andresvelez/golmarket-backend/pkg/enums"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// allowedTransitions encodes the administrative order lifecycle. Orders move
// forward through fulfilment; cancellation is only possible before shipping.
var allowedTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPending:    {enums.OrderStatusProcessing, enums.OrderStatusCancelled},
	enums.OrderStatusProcessing: {enums.OrderStatusShipped, enums.OrderStatusCancelled},
	enums.OrderStatusShipped:    {enums.OrderStatusDelivered},
	enums.OrderStatusDelivered:  {},
	enums.OrderStatusCancelled:  {},
}

// CanTransition reports whether from -> to is an allowed status move.
func CanTransition(from, to enums.OrderStatus) bool {
	for _, candidate := range allowedTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}

// Service exposes back-office order operations.
type Service interface {
	GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, filter ListFilter) ([]models.Order, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo OrderRepository
	tx   txRunner
}

// NewService builds an order service backed by the provided stack.
func NewService(repo OrderRepository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("order repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListOrders(ctx context.Context, filter ListFilter) ([]models.Order, error) {
	if filter.Status != "" && !filter.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", filter.Status))
	}
	return s.repo.List(ctx, filter)
}

// TransitionStatus applies a guarded status move inside a transaction,
// re-reading the order so a stale caller cannot skip states.
func (s *service) TransitionStatus(ctx context.Context, id uuid.UUID, next enums.OrderStatus) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid order status %q", next))
	}

	var updated *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		record, err := repo.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if !CanTransition(record.Status, next) {
			return pkgerrors.New(pkgerrors.CodeStateConflict,
				fmt.Sprintf("cannot move order from %s to %s", record.Status, next)).
				WithDetails(map[string]string{"from": record.Status.String(), "to": next.String()})
		}

		if err := repo.UpdateStatus(ctx, id, next); err != nil {
			return err
		}

		record.Status = next
		updated = record
		return nil
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "transitioning order status")
	}
	return updated, nil
}
