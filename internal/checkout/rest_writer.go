package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/andresvelez/golmarket-backend/pkg/config"
	"github.com/andresvelez/golmarket-backend/pkg/db/models"
)

// TierREST names the secondary persistence tier.
const TierREST = "rest"

// RESTWriter is the secondary tier: the same logical order endpoints reached
// over raw HTTP with a bearer credential, used when the primary client fails.
type RESTWriter struct {
	baseURL string
	token   string
	client  *http.Client
}

func NewRESTWriter(cfg config.RESTFallbackConfig) *RESTWriter {
	return &RESTWriter{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		client:  &http.Client{Timeout: cfg.Timeout},
	}
}

func (w *RESTWriter) Name() string {
	return TierREST
}

func (w *RESTWriter) WriteOrder(ctx context.Context, order *models.Order) error {
	return w.post(ctx, "/orders", orderPayloadFrom(order))
}

func (w *RESTWriter) WriteLine(ctx context.Context, line *models.OrderLine) error {
	return w.post(ctx, "/order_lines", linePayloadFrom(line))
}

func (w *RESTWriter) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if w.token != "" {
		req.Header.Set("Authorization", "Bearer "+w.token)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting %s: %w", path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("posting %s: unexpected status %d", path, resp.StatusCode)
	}
	return nil
}
