package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresvelez/golmarket-backend/internal/cart"
	"github.com/andresvelez/golmarket-backend/internal/identity"
	"github.com/andresvelez/golmarket-backend/pkg/config"
	"github.com/andresvelez/golmarket-backend/pkg/db/models"
	"github.com/andresvelez/golmarket-backend/pkg/enums"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
	"github.com/andresvelez/golmarket-backend/pkg/metrics"
	"github.com/andresvelez/golmarket-backend/pkg/whatsapp"
)

type cartStore interface {
	GetLines(ctx context.Context, owner identity.Identity) ([]cart.Line, error)
	Clear(ctx context.Context, owner identity.Identity) error
}

// Service turns a non-empty cart plus contact fields into a persisted order
// and a WhatsApp handoff link.
type Service interface {
	Submit(ctx context.Context, owner identity.Identity, input SubmitInput) (*SubmitResult, error)
}

// SubmitInput carries the customer-supplied checkout form.
type SubmitInput struct {
	CustomerName    string
	CustomerPhone   string
	ShippingAddress string
	PaymentMethod   string
}

// SubmitResult reports where the order ended up and the dispatch link.
type SubmitResult struct {
	OrderID     uuid.UUID       `json:"order_id"`
	Total       decimal.Decimal `json:"total"`
	WhatsAppURL string          `json:"whatsapp_url"`
	PersistTier string          `json:"persist_tier"`
	Degraded    bool            `json:"degraded"`
}

type service struct {
	carts       cartStore
	writers     []OrderWriter
	lineWriters []OrderWriter
	waCfg       config.WhatsAppConfig
	met         *metrics.CheckoutMetrics
	logg        *logger.Logger
	link        func(phone string, summary whatsapp.OrderSummary) (string, error)
}

// NewService assembles the pipeline. secondary may be nil when the REST tier
// is not configured; primary and fallback are required.
func NewService(
	carts cartStore,
	primary OrderWriter,
	secondary OrderWriter,
	fallback OrderWriter,
	waCfg config.WhatsAppConfig,
	met *metrics.CheckoutMetrics,
	logg *logger.Logger,
) (Service, error) {
	if carts == nil {
		return nil, fmt.Errorf("cart store required")
	}
	if primary == nil {
		return nil, fmt.Errorf("primary order writer required")
	}
	if fallback == nil {
		return nil, fmt.Errorf("fallback order writer required")
	}
	if waCfg.Phone == "" {
		return nil, fmt.Errorf("whatsapp destination phone required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	remote := []OrderWriter{primary}
	if secondary != nil {
		remote = append(remote, secondary)
	}

	return &service{
		carts:       carts,
		writers:     append(append([]OrderWriter{}, remote...), fallback),
		lineWriters: remote,
		waCfg:       waCfg,
		met:         met,
		logg:        logg,
		link:        whatsapp.OrderLink,
	}, nil
}

// Submit runs validation, the tiered order write, and the WhatsApp handoff.
// Persistence failures degrade tier by tier and never block the handoff; a
// failure building the handoff link itself is fatal and leaves the cart
// intact.
func (s *service) Submit(ctx context.Context, owner identity.Identity, input SubmitInput) (*SubmitResult, error) {
	normalized, err := s.validate(input)
	if err != nil {
		return nil, err
	}

	lines, err := s.carts.GetLines(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	order := buildOrder(owner, normalized, lines)
	ctx = s.logg.WithFields(ctx, map[string]any{
		"order_id":   order.ID.String(),
		"cart_owner": owner.Key(),
	})

	tier, err := tryInOrder(s.writers, func(w OrderWriter) error {
		return w.WriteOrder(ctx, order)
	})
	if err != nil {
		// even the local queue failed; the handoff still goes out
		s.logg.Error(ctx, "order not persisted by any tier", err)
		tier = "none"
	}
	s.met.IncPersisted(tier)

	degraded := tier != TierDatabase && tier != TierREST
	if degraded {
		s.logg.Warn(s.logg.WithField(ctx, "tier", tier), "order persisted in degraded mode")
	} else {
		s.writeLines(ctx, order)
	}

	link, err := s.link(s.waCfg.Phone, orderSummary(order))
	if err != nil {
		s.met.IncDispatched("failed")
		return nil, pkgerrors.Wrap(pkgerrors.CodeDispatchFailed, err, "building order handoff link")
	}

	if err := s.carts.Clear(ctx, owner); err != nil {
		s.logg.Warn(ctx, "clearing cart after dispatch failed")
	}
	s.met.IncDispatched("success")

	return &SubmitResult{
		OrderID:     order.ID,
		Total:       order.Total,
		WhatsAppURL: link,
		PersistTier: tier,
		Degraded:    degraded,
	}, nil
}

// writeLines persists order lines against the remote tiers. Each line tries
// primary then secondary independently; a failed line is logged and skipped.
func (s *service) writeLines(ctx context.Context, order *models.Order) {
	for i := range order.Lines {
		line := &order.Lines[i]
		if _, err := tryInOrder(s.lineWriters, func(w OrderWriter) error {
			return w.WriteLine(ctx, line)
		}); err != nil {
			s.logg.Error(s.logg.WithField(ctx, "product_id", line.ProductID.String()),
				"order line not persisted, skipping", err)
		}
	}
}

func (s *service) validate(input SubmitInput) (SubmitInput, error) {
	if strings.TrimSpace(input.CustomerName) == "" {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if strings.TrimSpace(input.ShippingAddress) == "" {
		return input, pkgerrors.New(pkgerrors.CodeValidation, "shipping address is required")
	}
	if _, err := enums.ParsePaymentMethod(input.PaymentMethod); err != nil {
		return input, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	phone, err := NormalizePhone(input.CustomerPhone, s.waCfg.CountryCode)
	if err != nil {
		return input, err
	}

	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.ShippingAddress = strings.TrimSpace(input.ShippingAddress)
	input.CustomerPhone = phone
	return input, nil
}

func buildOrder(owner identity.Identity, input SubmitInput, lines []cart.Line) *models.Order {
	order := &models.Order{
		ID:              uuid.New(),
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		ShippingAddress: input.ShippingAddress,
		PaymentMethod:   enums.PaymentMethod(input.PaymentMethod),
		Status:          enums.OrderStatusPending,
	}
	if owner.IsAccount() {
		userID := owner.UserID
		order.UserID = &userID
	}

	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal())
		order.Lines = append(order.Lines, models.OrderLine{
			ID:          uuid.New(),
			OrderID:     order.ID,
			ProductID:   line.ProductID,
			SizeVariant: line.SizeVariant,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			ProductName: line.ProductName,
		})
	}
	order.Total = total
	return order
}

func orderSummary(order *models.Order) whatsapp.OrderSummary {
	summary := whatsapp.OrderSummary{
		OrderID:       order.ID.String(),
		CustomerName:  order.CustomerName,
		CustomerPhone: order.CustomerPhone,
		Address:       order.ShippingAddress,
		PaymentMethod: order.PaymentMethod.String(),
		Total:         order.Total,
	}
	for _, line := range order.Lines {
		variant := ""
		if line.SizeVariant != nil {
			variant = *line.SizeVariant
		}
		summary.Lines = append(summary.Lines, whatsapp.OrderSummaryLine{
			ProductName: line.ProductName,
			SizeVariant: variant,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Subtotal:    line.Subtotal(),
		})
	}
	return summary
}
