package services

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

	"github.com/bignash/datahub/internal/config"
	"github.com/cenkalti/backoff/v4"
	"github.com/shopspring/decimal"
)

// Gateway transaction statuses reported by Paystack
const (
	GatewayStatusSuccess   = "success"
	GatewayStatusFailed    = "failed"
	GatewayStatusAbandoned = "abandoned"
	GatewayStatusReversed  = "reversed"
)

// PaymentGateway initializes and verifies card/mobile money payments
type PaymentGateway interface {
	Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error)
	Verify(ctx context.Context, reference string) (*VerifyResult, error)
}

type InitializeRequest struct {
	Email     string
	Amount    decimal.Decimal
	Reference string
	Metadata  map[string]any
}

type InitializeResult struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

// VerifyResult is the gateway's view of a payment. Amount is in major units.
type VerifyResult struct {
	Reference       string
	Status          string
	Amount          decimal.Decimal
	Currency        string
	Channel         string
	GatewayResponse string
	PaidAt          string
}

// PaystackClient talks to the Paystack transaction API
type PaystackClient struct {
	baseURL       string
	secretKey     string
	callbackURL   string
	currency      string
	httpClient    *http.Client
	maxRetries    uint64
	retryInterval time.Duration
}

func NewPaystackClient(cfg config.PaystackConfig) *PaystackClient {
	return &PaystackClient{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		secretKey:     cfg.SecretKey,
		callbackURL:   cfg.CallbackURL,
		currency:      cfg.Currency,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		maxRetries:    2,
		retryInterval: 500 * time.Millisecond,
	}
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type paystackInitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type paystackVerifyData struct {
	Reference       string `json:"reference"`
	Status          string `json:"status"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Channel         string `json:"channel"`
	GatewayResponse string `json:"gateway_response"`
	PaidAt          string `json:"paid_at"`
}

// Initialize creates a checkout session. The amount is sent in pesewas.
func (c *PaystackClient) Initialize(ctx context.Context, req InitializeRequest) (*InitializeResult, error) {
	body := map[string]any{
		"email":        req.Email,
		"amount":       toMinorUnits(req.Amount),
		"currency":     c.currency,
		"callback_url": c.callbackURL,
	}
	if req.Reference != "" {
		body["reference"] = req.Reference
	}
	if req.Metadata != nil {
		body["metadata"] = req.Metadata
	}

	var data paystackInitializeData
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &data); err != nil {
		return nil, err
	}
	if data.AuthorizationURL == "" || data.Reference == "" {
		return nil, fmt.Errorf("%w: incomplete initialize response", ErrGatewayUnavailable)
	}

	return &InitializeResult{
		AuthorizationURL: data.AuthorizationURL,
		AccessCode:       data.AccessCode,
		Reference:        data.Reference,
	}, nil
}

// Verify fetches the payment status. Transient failures are retried with
// exponential backoff since the lookup has no side effects.
func (c *PaystackClient) Verify(ctx context.Context, reference string) (*VerifyResult, error) {
	var data paystackVerifyData

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.retryInterval

	err := backoff.Retry(func() error {
		err := c.do(ctx, http.MethodGet, "/transaction/verify/"+url.PathEscape(reference), nil, &data)
		var permanent *gatewayRejection
		if errors.As(err, &permanent) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(backoff.WithMaxRetries(policy, c.maxRetries), ctx))
	if err != nil {
		if !errors.Is(err, ErrGatewayUnavailable) {
			err = fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
		}
		return nil, err
	}

	return &VerifyResult{
		Reference:       data.Reference,
		Status:          strings.ToLower(data.Status),
		Amount:          fromMinorUnits(data.Amount),
		Currency:        data.Currency,
		Channel:         data.Channel,
		GatewayResponse: data.GatewayResponse,
		PaidAt:          data.PaidAt,
	}, nil
}

// gatewayRejection is a 4xx answer; retrying it cannot succeed.
type gatewayRejection struct {
	status  int
	message string
}

func (e *gatewayRejection) Error() string {
	return fmt.Sprintf("%s: gateway rejected request (%d): %s", ErrGatewayUnavailable, e.status, e.message)
}

func (e *gatewayRejection) Unwrap() error {
	return ErrGatewayUnavailable
}

func (c *PaystackClient) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode gateway request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build gateway request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	var envelope paystackEnvelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&envelope)

	if resp.StatusCode >= 400 && resp.StatusCode < 500 {
		return &gatewayRejection{status: resp.StatusCode, message: envelope.Message}
	}
	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: gateway returned %d", ErrGatewayUnavailable, resp.StatusCode)
	}
	if decodeErr != nil {
		return fmt.Errorf("%w: malformed gateway response: %v", ErrGatewayUnavailable, decodeErr)
	}
	if !envelope.Status {
		return &gatewayRejection{status: resp.StatusCode, message: envelope.Message}
	}

	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("%w: malformed gateway data: %v", ErrGatewayUnavailable, err)
	}
	return nil
}

func toMinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func fromMinorUnits(amount int64) decimal.Decimal {
	return decimal.New(amount, -2)
}
