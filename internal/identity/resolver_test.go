package identity

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/andresvelez/golmarket-backend/pkg/config"
	"github.com/andresvelez/golmarket-backend/pkg/enums"
	pkgerrors "github.com/andresvelez/golmarket-backend/pkg/errors"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "golmarket-test",
		ExpirationMinutes: 60,
	}
}

func TestResolveAccountFromBearer(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	userID := uuid.New()
	token, err := MintAccessToken(cfg, time.Now(), userID)
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	id, err := NewResolver(cfg).Resolve(req)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id.Kind != enums.IdentityKindAccount {
		t.Fatalf("kind = %s, want account", id.Kind)
	}
	if id.UserID != userID {
		t.Fatalf("user id = %s, want %s", id.UserID, userID)
	}
}

func TestResolveGuestFromSessionHeader(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set(SessionHeader, "sess-abc123")

	id, err := NewResolver(testJWTConfig()).Resolve(req)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if id.Kind != enums.IdentityKindGuest {
		t.Fatalf("kind = %s, want guest", id.Kind)
	}
	if id.SessionID != "sess-abc123" {
		t.Fatalf("session id = %q", id.SessionID)
	}
	if id.Key() != "sess-abc123" {
		t.Fatalf("Key() = %q", id.Key())
	}
}

func TestResolveBearerWinsOverSession(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	userID := uuid.New()
	token, err := MintAccessToken(cfg, time.Now(), userID)
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set(SessionHeader, "sess-ignored")

	id, err := NewResolver(cfg).Resolve(req)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if !id.IsAccount() {
		t.Fatal("expected account identity when both headers present")
	}
}

func TestResolveRejectsBadToken(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")
	req.Header.Set(SessionHeader, "sess-abc123")

	_, err := NewResolver(testJWTConfig()).Resolve(req)
	if err == nil {
		t.Fatal("expected error for malformed bearer token")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestResolveRejectsMissingHeaders(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/cart", nil)
	if _, err := NewResolver(testJWTConfig()).Resolve(req); err == nil {
		t.Fatal("expected error when no identity headers present")
	}
}

func TestResolveAccountRejectsGuest(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest("GET", "/cart", nil)
	req.Header.Set(SessionHeader, "sess-abc123")

	if _, err := NewResolver(testJWTConfig()).ResolveAccount(req); err == nil {
		t.Fatal("expected error for guest on account-only resolution")
	}
}

func TestMintRejectsExpiredConfig(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	cfg.ExpirationMinutes = 0
	if _, err := MintAccessToken(cfg, time.Now(), uuid.New()); err == nil {
		t.Fatal("expected error for non-positive expiration")
	}
}

func TestParseRejectsExpiredToken(t *testing.T) {
	t.Parallel()

	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now().Add(-2*time.Hour), uuid.New())
	if err != nil {
		t.Fatalf("minting token: %v", err)
	}
	if _, err := ParseAccessToken(cfg, token); err == nil {
		t.Fatal("expected error for expired token")
	}
}
