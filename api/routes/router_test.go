package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andresvelez/golmarket-backend/internal/identity"
	"github.com/andresvelez/golmarket-backend/pkg/config"
	"github.com/andresvelez/golmarket-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

func testDeps() Deps {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Issuer = "golmarket-test"
	cfg.JWT.ExpirationMinutes = 60

	return Deps{
		Config:   cfg,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		DB:       stubPinger{},
		Redis:    stubPinger{},
		Resolver: identity.NewResolver(cfg.JWT),
	}
}

func TestRouterHealthLive(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /health/live, got %d", rec.Code)
	}
	if rec.Header().Get("X-GolMarket-Env") != "test" {
		t.Fatalf("expected env header, got %q", rec.Header().Get("X-GolMarket-Env"))
	}
}

func TestRouterCartRequiresIdentity(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without credentials, got %d", rec.Code)
	}
}

func TestRouterCartAcceptsSessionHeader(t *testing.T) {
	router := NewRouter(testDeps())

	// Nil cart service behind a valid guest identity surfaces as 500, which
	// proves the middleware admitted the request.
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)
	req.Header.Set(identity.SessionHeader, "session-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 with nil service, got %d", rec.Code)
	}
}

func TestRouterAdminRejectsGuests(t *testing.T) {
	router := NewRouter(testDeps())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders/", nil)
	req.Header.Set(identity.SessionHeader, "session-abc")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for guest on admin route, got %d", rec.Code)
	}
}
