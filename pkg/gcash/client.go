package gcash

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/educart-ph/educart-backend/pkg/config"
	pkgerrors "github.com/educart-ph/educart-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	requestBodyReadLimit int64 = 1024
)

var (
	errAPIKeyRequired        = errors.New("gcash api key is required")
	errBaseURLRequired       = errors.New("gcash base url is required")
	errWebhookSecretRequired = errors.New("gcash webhook secret is required")
)

// Client wraps the hosted GCash checkout API used for online payments.
type Client struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	webhookSecret string
	successURL    string
	cancelURL     string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the GCash checkout client from configuration.
func NewClient(cfg config.GCashConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errAPIKeyRequired
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errBaseURLRequired
	}
	if strings.TrimSpace(cfg.WebhookSecret) == "" {
		return nil, errWebhookSecretRequired
	}

	client := &Client{
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		baseURL:       strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		apiKey:        strings.TrimSpace(cfg.APIKey),
		webhookSecret: strings.TrimSpace(cfg.WebhookSecret),
		successURL:    strings.TrimSpace(cfg.SuccessURL),
		cancelURL:     strings.TrimSpace(cfg.CancelURL),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: 15 * time.Second}
	}

	return client, nil
}

// CheckoutRequest describes a hosted checkout session to create.
type CheckoutRequest struct {
	ReferenceID string
	Amount      decimal.Decimal
	Currency    string
	Description string
}

// Checkout is the created hosted checkout session.
type Checkout struct {
	CheckoutID  string
	CheckoutURL string
	Status      string
}

type createCheckoutPayload struct {
	ReferenceID string `json:"reference_id"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency"`
	Description string `json:"description,omitempty"`
	SuccessURL  string `json:"success_url,omitempty"`
	CancelURL   string `json:"cancel_url,omitempty"`
}

// CreateCheckout creates a hosted checkout session and returns the redirect URL.
func (c *Client) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "gcash client not configured")
	}
	if strings.TrimSpace(req.ReferenceID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout reference id is required")
	}
	if !req.Amount.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout amount must be positive")
	}

	currency := strings.TrimSpace(req.Currency)
	if currency == "" {
		currency = "PHP"
	}

	payload, err := json.Marshal(createCheckoutPayload{
		ReferenceID: req.ReferenceID,
		Amount:      req.Amount.StringFixed(2),
		Currency:    currency,
		Description: req.Description,
		SuccessURL:  c.successURL,
		CancelURL:   c.cancelURL,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal checkout request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/checkouts", bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build checkout request")
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute checkout request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "checkout request failed")
	}

	var apiResp struct {
		ID          string `json:"id"`
		CheckoutURL string `json:"checkout_url"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout response")
	}

	return &Checkout{
		CheckoutID:  apiResp.ID,
		CheckoutURL: apiResp.CheckoutURL,
		Status:      apiResp.Status,
	}, nil
}

// GetCheckout fetches the current state of a checkout session.
func (c *Client) GetCheckout(ctx context.Context, checkoutID string) (*Checkout, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "gcash client not configured")
	}
	trimmed := strings.TrimSpace(checkoutID)
	if trimmed == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout id is required")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/checkouts/"+trimmed, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build checkout lookup request")
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute checkout lookup request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, requestBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "checkout lookup failed")
	}

	var apiResp struct {
		ID          string `json:"id"`
		CheckoutURL string `json:"checkout_url"`
		Status      string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode checkout lookup response")
	}

	return &Checkout{
		CheckoutID:  apiResp.ID,
		CheckoutURL: apiResp.CheckoutURL,
		Status:      apiResp.Status,
	}, nil
}

// VerifyWebhookSignature checks the HMAC-SHA256 signature header against the raw body.
func (c *Client) VerifyWebhookSignature(body []byte, signature string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "gcash client not configured")
	}
	provided := strings.TrimSpace(signature)
	if provided == "" {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature is required")
	}

	mac := hmac.New(sha256.New, []byte(c.webhookSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(expected), []byte(strings.ToLower(provided))) {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature mismatch")
	}
	return nil
}
