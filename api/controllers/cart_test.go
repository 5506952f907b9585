package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/andresvelez/golmarket-backend/api/middleware"
	cartsvc "github.com/andresvelez/golmarket-backend/internal/cart"
	"github.com/andresvelez/golmarket-backend/internal/identity"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
)

type stubCartService struct {
	lines   []cartsvc.Line
	addErr  error
	added   *cartsvc.AddInput
	cleared bool
}

func (s *stubCartService) GetLines(ctx context.Context, owner identity.Identity) ([]cartsvc.Line, error) {
	return s.lines, nil
}

func (s *stubCartService) AddToCart(ctx context.Context, owner identity.Identity, input cartsvc.AddInput) (*cartsvc.Line, error) {
	if s.addErr != nil {
		return nil, s.addErr
	}
	s.added = &input
	line := cartsvc.Line{
		ID:          uuid.NewString(),
		ProductID:   input.ProductID,
		SizeVariant: input.SizeVariant,
		Quantity:    input.Quantity,
		UnitPrice:   decimal.NewFromInt(120000),
		ProductName: "Camiseta Local 2026",
	}
	return &line, nil
}

func (s *stubCartService) SetLineQuantity(ctx context.Context, owner identity.Identity, productID uuid.UUID, sizeVariant *string, quantity int) (*cartsvc.Line, error) {
	line := cartsvc.Line{ProductID: productID, SizeVariant: sizeVariant, Quantity: quantity}
	return &line, nil
}

func (s *stubCartService) RemoveLine(ctx context.Context, owner identity.Identity, lineID string) error {
	return nil
}

func (s *stubCartService) CountTotalItems(ctx context.Context, owner identity.Identity) (int, error) {
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total, nil
}

func (s *stubCartService) Clear(ctx context.Context, owner identity.Identity) error {
	s.cleared = true
	return nil
}

func (s *stubCartService) Notifier() *cartsvc.Notifier {
	return cartsvc.NewNotifier()
}

func testLogg() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Level: logger.ParseLevel("debug"), Output: io.Discard})
}

func guestCtx(ctx context.Context) context.Context {
	return middleware.WithIdentity(ctx, identity.Guest("session-abc"))
}

func TestCartAdd(t *testing.T) {
	logg := testLogg()
	productID := uuid.New()

	t.Run("missing identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(`{}`))
		rec := httptest.NewRecorder()
		CartAdd(&stubCartService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401 without identity, got %d", rec.Code)
		}
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		body := `{"product_id":"` + productID.String() + `","quantity":0}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req = req.WithContext(guestCtx(req.Context()))
		rec := httptest.NewRecorder()
		CartAdd(&stubCartService{}, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		stub := &stubCartService{}
		body := `{"product_id":"` + productID.String() + `","size_variant":"M","quantity":2}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req = req.WithContext(guestCtx(req.Context()))
		rec := httptest.NewRecorder()
		CartAdd(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if stub.added == nil || stub.added.Quantity != 2 || stub.added.ProductID != productID {
			t.Fatalf("unexpected add input: %+v", stub.added)
		}
	})

	t.Run("stock error passes through", func(t *testing.T) {
		stub := &stubCartService{
			addErr: pkgerrors.New(pkgerrors.CodeInsufficientStock, "only 2 more units available").
				WithDetails(map[string]any{"available": 2}),
		}
		body := `{"product_id":"` + productID.String() + `","quantity":5}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/cart/items", strings.NewReader(body))
		req = req.WithContext(guestCtx(req.Context()))
		rec := httptest.NewRecorder()
		CartAdd(stub, logg).ServeHTTP(rec, req)
		if rec.Code != http.StatusConflict {
			t.Fatalf("expected 409 for insufficient stock, got %d", rec.Code)
		}

		var envelope struct {
			Error struct {
				Code    string         `json:"code"`
				Message string         `json:"message"`
				Details map[string]any `json:"details"`
			} `json:"error"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
			t.Fatalf("decode error envelope: %v", err)
		}
		if envelope.Error.Code != "INSUFFICIENT_STOCK" {
			t.Fatalf("unexpected error code %q", envelope.Error.Code)
		}
		if envelope.Error.Details["available"] != float64(2) {
			t.Fatalf("expected available=2 in details, got %v", envelope.Error.Details)
		}
	})
}

func TestCartFetchTotals(t *testing.T) {
	logg := testLogg()
	stub := &stubCartService{
		lines: []cartsvc.Line{
			{ID: uuid.NewString(), ProductID: uuid.New(), Quantity: 2, UnitPrice: decimal.NewFromInt(120000)},
			{ID: uuid.NewString(), ProductID: uuid.New(), Quantity: 1, UnitPrice: decimal.NewFromInt(95000)},
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req = req.WithContext(guestCtx(req.Context()))
	rec := httptest.NewRecorder()
	CartFetch(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data struct {
			Items      []json.RawMessage `json:"items"`
			TotalItems int               `json:"total_items"`
			Subtotal   string            `json:"subtotal"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if len(envelope.Data.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(envelope.Data.Items))
	}
	if envelope.Data.TotalItems != 3 {
		t.Fatalf("expected total_items 3, got %d", envelope.Data.TotalItems)
	}
	if envelope.Data.Subtotal != "335000" {
		t.Fatalf("expected subtotal 335000, got %q", envelope.Data.Subtotal)
	}
}

func TestCartBadge(t *testing.T) {
	logg := testLogg()
	stub := &stubCartService{lines: []cartsvc.Line{{Quantity: 4}, {Quantity: 1}}}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart/badge", nil)
	req = req.WithContext(guestCtx(req.Context()))
	rec := httptest.NewRecorder()
	CartBadge(stub, logg).ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var envelope struct {
		Data map[string]int `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data["total_items"] != 5 {
		t.Fatalf("expected badge 5, got %d", envelope.Data["total_items"])
	}
}
