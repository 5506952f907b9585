package redis

import (
	"testing"

	"github.com/andresvelez/golmarket-backend/pkg/config"
)

func TestOptionsFromConfigRequiresTarget(t *testing.T) {
	if _, err := optionsFromConfig(config.RedisConfig{}); err == nil {
		t.Fatal("expected error when neither url nor address is set")
	}
}

func TestOptionsFromConfigParsesURL(t *testing.T) {
	opts, err := optionsFromConfig(config.RedisConfig{URL: "redis://:pw@localhost:6380/2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6380" {
		t.Fatalf("unexpected addr %q", opts.Addr)
	}
	if opts.DB != 2 {
		t.Fatalf("unexpected db %d", opts.DB)
	}
}

func TestKeyBuilders(t *testing.T) {
	if got := GuestCartKey("sess-1"); got != "gm:guest_cart:sess-1" {
		t.Fatalf("unexpected guest cart key %q", got)
	}
	if got := PendingOrdersKey(); got != "gm:pending_orders" {
		t.Fatalf("unexpected pending orders key %q", got)
	}
}
