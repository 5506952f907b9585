package suppliers

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/andresvelez/golmarket-backend/pkg/db/models"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
)

// Service exposes back-office supplier management.
type Service interface {
	GetSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error)
	UpdateSupplier(ctx context.Context, id uuid.UUID, input SupplierInput) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
}

// SupplierInput carries the writable supplier fields.
type SupplierInput struct {
	Name        string
	ContactName *string
	Phone       *string
	TaxID       *string
}

type service struct {
	repo SupplierRepository
}

func NewService(repo SupplierRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetSupplier(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return s.repo.List(ctx)
}

func (s *service) CreateSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	}
	return s.repo.Create(ctx, &models.Supplier{
		Name:        strings.TrimSpace(input.Name),
		ContactName: input.ContactName,
		Phone:       input.Phone,
		TaxID:       input.TaxID,
	})
}

func (s *service) UpdateSupplier(ctx context.Context, id uuid.UUID, input SupplierInput) (*models.Supplier, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier name is required")
	}

	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	record.Name = strings.TrimSpace(input.Name)
	record.ContactName = input.ContactName
	record.Phone = input.Phone
	record.TaxID = input.TaxID
	return s.repo.Update(ctx, record)
}

func (s *service) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "supplier id is required")
	}
	return s.repo.Delete(ctx, id)
}
