package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Gateway order statuses the orchestrator branches on.
const (
	OrderStatusApproved  = "APPROVED"
	OrderStatusCompleted = "COMPLETED"
)

// IssueInvalidResourceID is how the provider reports that an order
// reference no longer exists; the orchestrator treats it as expiry.
const IssueInvalidResourceID = "INVALID_RESOURCE_ID"

// ErrMissingCredentials is returned when the service-level client id or
// secret is unconfigured.
var ErrMissingCredentials = errors.New("missing payment API credentials")

// Gateway isolates the three operations the lifecycle needs from the
// payment provider's orders API.
type Gateway interface {
	CreateOrder(ctx context.Context, payload OrderPayload) (*OrderResult, error)
	CaptureOrder(ctx context.Context, orderID string) (*OrderResult, error)
	GetOrder(ctx context.Context, orderID string) (*OrderResult, error)
}

// OrderResult is a decoded gateway response: the order id and status the
// orchestrator branches on, plus the raw payload for audit storage.
type OrderResult struct {
	ID         string
	Status     string
	HTTPStatus int
	Raw        json.RawMessage
}

// GatewayError carries a non-2xx gateway response. Issue holds
// details[0].issue from the provider's error payload when present.
type GatewayError struct {
	HTTPStatus int
	Issue      string
	Raw        json.RawMessage
}

func (e *GatewayError) Error() string {
	if e.Issue != "" {
		return fmt.Sprintf("gateway returned status %d (%s)", e.HTTPStatus, e.Issue)
	}
	return fmt.Sprintf("gateway returned status %d", e.HTTPStatus)
}

// OrderPayload is the order-intent body for the provider's
// POST /v2/checkout/orders.
type OrderPayload struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []PurchaseUnit     `json:"purchase_units"`
	ApplicationContext ApplicationContext `json:"application_context"`
}

type PurchaseUnit struct {
	ReferenceID string     `json:"reference_id"`
	Description string     `json:"description"`
	Items       []LineItem `json:"items"`
	Amount      UnitAmount `json:"amount"`
}

type LineItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	UnitAmount  Money  `json:"unit_amount"`
}

type Money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type UnitAmount struct {
	CurrencyCode string     `json:"currency_code"`
	Value        string     `json:"value"`
	Breakdown    *Breakdown `json:"breakdown,omitempty"`
}

type Breakdown struct {
	ItemTotal Money `json:"item_total"`
}

type ApplicationContext struct {
	BrandName          string `json:"brand_name"`
	ShippingPreference string `json:"shipping_preference"`
	ReturnURL          string `json:"return_url"`
	CancelURL          string `json:"cancel_url"`
}

// GatewayConfig holds the service-level credentials and endpoint for the
// payment provider.
type GatewayConfig struct {
	ClientID string
	Secret   string
	BaseURL  string
}

// PayPalGateway implements Gateway against the PayPal REST orders v2 API.
// It is constructed once per process and injected where needed; every
// outbound call fetches a fresh client-credentials bearer token.
type PayPalGateway struct {
	cfg        GatewayConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewPayPalGateway creates a gateway client with explicit configuration.
func NewPayPalGateway(cfg GatewayConfig, logger *zap.Logger) *PayPalGateway {
	return &PayPalGateway{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// getAccessToken exchanges the configured client id/secret for a short-lived
// bearer token via the client-credentials grant.
func (g *PayPalGateway) getAccessToken(ctx context.Context) (string, error) {
	if g.cfg.ClientID == "" || g.cfg.Secret == "" {
		return "", ErrMissingCredentials
	}

	body := strings.NewReader(url.Values{"grant_type": {"client_credentials"}}.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.BaseURL+"/v1/oauth2/token", body)
	if err != nil {
		return "", fmt.Errorf("building token request failed: %w", err)
	}
	req.SetBasicAuth(g.cfg.ClientID, g.cfg.Secret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading token response failed: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", newGatewayHTTPError(resp.StatusCode, raw)
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &tokenResp); err != nil {
		return "", fmt.Errorf("decoding token response failed: %w", err)
	}
	if tokenResp.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}
	return tokenResp.AccessToken, nil
}

// CreateOrder starts a transaction with the provider.
func (g *PayPalGateway) CreateOrder(ctx context.Context, payload OrderPayload) (*OrderResult, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding order payload failed: %w", err)
	}
	return g.do(ctx, http.MethodPost, "/v2/checkout/orders", body)
}

// CaptureOrder captures an order payment by passing the approved order ID.
func (g *PayPalGateway) CaptureOrder(ctx context.Context, orderID string) (*OrderResult, error) {
	return g.do(ctx, http.MethodPost, "/v2/checkout/orders/"+orderID+"/capture", nil)
}

// GetOrder fetches the current state of an order.
func (g *PayPalGateway) GetOrder(ctx context.Context, orderID string) (*OrderResult, error) {
	return g.do(ctx, http.MethodGet, "/v2/checkout/orders/"+orderID, nil)
}

func (g *PayPalGateway) do(ctx context.Context, method, path string, body []byte) (*OrderResult, error) {
	token, err := g.getAccessToken(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, g.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("building gateway request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading gateway response failed: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		gerr := newGatewayHTTPError(resp.StatusCode, raw)
		g.logger.Warn("gateway call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("issue", gerr.Issue))
		return nil, gerr
	}

	var decoded struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decoding gateway response failed: %w", err)
	}

	return &OrderResult{
		ID:         decoded.ID,
		Status:     decoded.Status,
		HTTPStatus: resp.StatusCode,
		Raw:        raw,
	}, nil
}

// newGatewayHTTPError builds a GatewayError, extracting details[0].issue
// from the provider's error payload when it is present.
func newGatewayHTTPError(status int, raw []byte) *GatewayError {
	gerr := &GatewayError{HTTPStatus: status, Raw: raw}

	var payload struct {
		Details []struct {
			Issue string `json:"issue"`
		} `json:"details"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && len(payload.Details) > 0 {
		gerr.Issue = payload.Details[0].Issue
	}
	return gerr
}
