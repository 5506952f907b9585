package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andresvelez/golmarket-backend/internal/identity"
	"github.com/andresvelez/golmarket-backend/pkg/db/models"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
)

type productLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service exposes cart operations for both guest and account identities.
type Service interface {
	GetLines(ctx context.Context, owner identity.Identity) ([]Line, error)
	AddToCart(ctx context.Context, owner identity.Identity, input AddInput) (*Line, error)
	SetLineQuantity(ctx context.Context, owner identity.Identity, productID uuid.UUID, sizeVariant *string, quantity int) (*Line, error)
	RemoveLine(ctx context.Context, owner identity.Identity, lineID string) error
	CountTotalItems(ctx context.Context, owner identity.Identity) (int, error)
	Clear(ctx context.Context, owner identity.Identity) error
	Notifier() *Notifier
}

type service struct {
	repos    *Selector
	products productLoader
	notifier *Notifier
	logg     *logger.Logger
}

// NewService builds a cart service backed by the provided stack.
func NewService(repos *Selector, products productLoader, logg *logger.Logger) (Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository selector required")
	}
	if products == nil {
		return nil, fmt.Errorf("product loader required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repos:    repos,
		products: products,
		notifier: NewNotifier(),
		logg:     logg,
	}, nil
}

// AddInput captures one add-to-cart request.
type AddInput struct {
	ProductID   uuid.UUID
	SizeVariant *string
	Quantity    int
}

// Notifier returns the recount publisher owned by this service.
func (s *service) Notifier() *Notifier {
	return s.notifier
}

// GetLines returns the cart content for the identity's authoritative backend.
func (s *service) GetLines(ctx context.Context, owner identity.Identity) ([]Line, error) {
	return s.repos.For(owner).GetLines(ctx, owner)
}

// AddToCart merges the requested quantity into any existing line for the same
// (product, variant), guarded against live stock. The add is all-or-nothing:
// when the request does not fit, no partial amount is added and the error
// carries how many units still would.
func (s *service) AddToCart(ctx context.Context, owner identity.Identity, input AddInput) (*Line, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	ceiling, err := stockCap(product, input.SizeVariant)
	if err != nil {
		return nil, err
	}
	if ceiling <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "product is out of stock").
			WithDetails(map[string]int{"available": 0})
	}

	repo := s.repos.For(owner)
	lines, err := repo.GetLines(ctx, owner)
	if err != nil {
		return nil, err
	}

	existing := 0
	for _, line := range lines {
		if line.Matches(input.ProductID, input.SizeVariant) {
			existing = line.Quantity
			break
		}
	}

	if existing >= ceiling {
		return nil, pkgerrors.New(pkgerrors.CodeStockExhausted,
			fmt.Sprintf("cart already holds the maximum of %d units", ceiling)).
			WithDetails(map[string]int{"cap": ceiling, "available": 0})
	}
	if existing+input.Quantity > ceiling {
		available := ceiling - existing
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("only %d more units available", available)).
			WithDetails(map[string]int{"available": available})
	}

	stored, err := repo.SetLineQuantity(ctx, owner, Line{
		ProductID:    input.ProductID,
		SizeVariant:  input.SizeVariant,
		Quantity:     existing + input.Quantity,
		UnitPrice:    product.Price,
		ProductName:  product.Name,
		ProductImage: firstImage(product),
	})
	if err != nil {
		return nil, err
	}

	s.publishRecount(ctx, owner)
	return stored, nil
}

// SetLineQuantity sets an absolute quantity for the (product, variant) line.
// The same stock ceiling as AddToCart applies: the stored quantity may never
// exceed the live availability for the (product, variant).
func (s *service) SetLineQuantity(ctx context.Context, owner identity.Identity, productID uuid.UUID, sizeVariant *string, quantity int) (*Line, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive; remove the line instead")
	}

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	ceiling, err := stockCap(product, sizeVariant)
	if err != nil {
		return nil, err
	}
	if ceiling <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeOutOfStock, "product is out of stock").
			WithDetails(map[string]int{"available": 0})
	}
	if quantity > ceiling {
		return nil, pkgerrors.New(pkgerrors.CodeInsufficientStock,
			fmt.Sprintf("only %d units available", ceiling)).
			WithDetails(map[string]int{"available": ceiling})
	}

	stored, err := s.repos.For(owner).SetLineQuantity(ctx, owner, Line{
		ProductID:    productID,
		SizeVariant:  sizeVariant,
		Quantity:     quantity,
		UnitPrice:    product.Price,
		ProductName:  product.Name,
		ProductImage: firstImage(product),
	})
	if err != nil {
		return nil, err
	}

	s.publishRecount(ctx, owner)
	return stored, nil
}

// RemoveLine removes a line; removing an absent line is a no-op.
func (s *service) RemoveLine(ctx context.Context, owner identity.Identity, lineID string) error {
	if err := s.repos.For(owner).RemoveLine(ctx, owner, lineID); err != nil {
		return err
	}
	s.publishRecount(ctx, owner)
	return nil
}

// CountTotalItems recomputes the badge count from the authoritative backend.
func (s *service) CountTotalItems(ctx context.Context, owner identity.Identity) (int, error) {
	lines, err := s.repos.For(owner).GetLines(ctx, owner)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, line := range lines {
		total += line.Quantity
	}
	return total, nil
}

// Clear empties the identity's cart.
func (s *service) Clear(ctx context.Context, owner identity.Identity) error {
	if err := s.repos.For(owner).Clear(ctx, owner); err != nil {
		return err
	}
	s.publishRecount(ctx, owner)
	return nil
}

func (s *service) publishRecount(ctx context.Context, owner identity.Identity) {
	total, err := s.CountTotalItems(ctx, owner)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "cart_owner", owner.Key()), "recount after cart mutation failed")
		return
	}
	s.notifier.publish(RecountEvent{Owner: owner, TotalItems: total})
}

// stockCap returns the quantity ceiling for the requested (product, variant).
// A named variant's availability wins over the aggregate stock field.
func stockCap(product *models.Product, sizeVariant *string) (int, error) {
	if sizeVariant == nil || *sizeVariant == "" {
		return product.Stock, nil
	}
	variant := product.VariantFor(*sizeVariant)
	if variant == nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown size variant %q", *sizeVariant))
	}
	return variant.QuantityAvailable, nil
}

func firstImage(product *models.Product) *string {
	if len(product.ImageURLs) == 0 {
		return nil
	}
	url := product.ImageURLs[0]
	return &url
}
