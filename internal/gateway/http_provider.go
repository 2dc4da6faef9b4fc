package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mineforge/jobs/internal/domain"
)

// HTTPProvider talks to the host's economy plugin over its HTTP API. The
// gateway owns retries and the circuit breaker, so the provider makes each
// call exactly once.
type HTTPProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPProvider creates an economy provider against baseURL
func NewHTTPProvider(baseURL, apiKey string) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type balanceRequest struct {
	PlayerID string  `json:"player_id"`
	Amount   float64 `json:"amount"`
}

// Deposit credits currency to a player's balance
func (p *HTTPProvider) Deposit(ctx context.Context, playerID uuid.UUID, amount float64) error {
	return p.post(ctx, "/api/v1/balance/deposit", playerID, amount)
}

// Withdraw debits currency from a player's balance
func (p *HTTPProvider) Withdraw(ctx context.Context, playerID uuid.UUID, amount float64) error {
	return p.post(ctx, "/api/v1/balance/withdraw", playerID, amount)
}

func (p *HTTPProvider) post(ctx context.Context, path string, playerID uuid.UUID, amount float64) error {
	body, err := json.Marshal(balanceRequest{PlayerID: playerID.String(), Amount: amount})
	if err != nil {
		return fmt.Errorf("failed to marshal balance request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrEconomyUnavailable, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck // drain for connection reuse

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: economy returned %d", domain.ErrEconomyUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("economy rejected %s for player %s: status %d", path, playerID, resp.StatusCode)
	}
	return nil
}
