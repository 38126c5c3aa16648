package ledger

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTPGateway talks to the ledger service over its JSON HTTP API.
type HTTPGateway struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPGateway creates a gateway for the ledger at baseURL.
func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type lockRequest struct {
	RoomID   string `json:"room_id"`
	Seat     string `json:"seat"`
	PlayerID string `json:"player_id"`
	Amount   int64  `json:"amount"`
}

type payoutRequest struct {
	RoomID string `json:"room_id"`
	Winner string `json:"winner"`
}

type refundRequest struct {
	RoomID string `json:"room_id"`
}

type ledgerResponse struct {
	Ref   string `json:"ref"`
	TxRef string `json:"tx_ref"`
	Error string `json:"error,omitempty"`
}

func (g *HTTPGateway) LockEscrow(ctx context.Context, roomID, seatColor, playerID string, amount int64) (string, error) {
	resp, err := g.post(ctx, "/escrow/lock", lockRequest{
		RoomID:   roomID,
		Seat:     seatColor,
		PlayerID: playerID,
		Amount:   amount,
	})
	if err != nil {
		return "", err
	}
	return resp.Ref, nil
}

func (g *HTTPGateway) ReleasePayout(ctx context.Context, roomID, winnerColor string) (string, error) {
	resp, err := g.post(ctx, "/payout/release", payoutRequest{RoomID: roomID, Winner: winnerColor})
	if err != nil {
		return "", err
	}
	return resp.TxRef, nil
}

func (g *HTTPGateway) RefundEscrow(ctx context.Context, roomID string) (string, error) {
	resp, err := g.post(ctx, "/escrow/refund", refundRequest{RoomID: roomID})
	if err != nil {
		return "", err
	}
	return resp.TxRef, nil
}

// post sends a JSON request and decodes the ledger's response envelope.
// Transport failures and non-2xx statuses both surface as ErrUnavailable so
// callers can treat them uniformly as retryable.
func (g *HTTPGateway) post(ctx context.Context, path string, payload interface{}) (*ledgerResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ledger request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build ledger request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned %d: %s", ErrUnavailable, path, resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out ledgerResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUnavailable, err)
	}
	if out.Error != "" {
		return nil, fmt.Errorf("%w: %s", ErrUnavailable, out.Error)
	}
	return &out, nil
}
