package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/bignash/datahub/internal/config"
	"github.com/bignash/datahub/internal/models"
)

// FulfillmentProvider delivers a purchased data bundle to a phone number
type FulfillmentProvider interface {
	Submit(ctx context.Context, req FulfillmentRequest) (*FulfillmentResult, error)
}

type FulfillmentRequest struct {
	Network     models.Network
	PhoneNumber string
	VolumeMB    int
	Reference   string
}

type FulfillmentResult struct {
	TransactionID string
	Message       string
}

// HubnetClient submits bundle purchases to Hubnet. Every failure, including a
// timeout or an unreadable body, is reported as ErrProviderUnavailable.
type HubnetClient struct {
	baseURL    string
	token      string
	webhookURL string
	httpClient *http.Client
}

func NewHubnetClient(cfg config.HubnetConfig) *HubnetClient {
	return &HubnetClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		webhookURL: callbackURL(cfg.WebhookURL, cfg.WebhookToken),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// HubnetWebhookTokenParam carries the shared webhook token on delivery reports
const HubnetWebhookTokenParam = "token"

// callbackURL adds the shared token to the delivery report URL
func callbackURL(webhookURL, token string) string {
	if token == "" {
		return webhookURL
	}
	u, err := url.Parse(webhookURL)
	if err != nil {
		log.Printf("[HUBNET] Invalid webhook URL %q: %v", webhookURL, err)
		return webhookURL
	}
	q := u.Query()
	q.Set(HubnetWebhookTokenParam, token)
	u.RawQuery = q.Encode()
	return u.String()
}

type hubnetResponse struct {
	Status           any    `json:"status"`
	Message          string `json:"message"`
	Reason           string `json:"reason"`
	TransactionID    string `json:"transactionId"`
	TransactionIDAlt string `json:"transaction_id"`
}

func (r hubnetResponse) failed() bool {
	switch v := r.Status.(type) {
	case bool:
		return !v
	case string:
		s := strings.ToLower(v)
		return s == "failed" || s == "error" || s == "false"
	}
	return false
}

func (r hubnetResponse) reason() string {
	if r.Message != "" {
		return r.Message
	}
	if r.Reason != "" {
		return r.Reason
	}
	return "transaction failed"
}

func (c *HubnetClient) Submit(ctx context.Context, req FulfillmentRequest) (*FulfillmentResult, error) {
	payload, err := json.Marshal(map[string]any{
		"phone":     req.PhoneNumber,
		"volume":    req.VolumeMB,
		"reference": req.Reference,
		"referrer":  req.PhoneNumber,
		"webhook":   c.webhookURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/%s-new-transaction", c.baseURL, req.Network)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}
	httpReq.Header.Set("token", "Bearer "+c.token)
	httpReq.Header.Set("Content-Type", "application/json")

	log.Printf("[HUBNET] Submitting %s %dMB for %s (ref %s)", req.Network, req.VolumeMB, req.PhoneNumber, req.Reference)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	var body hubnetResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && (body.Message != "" || body.Reason != "") {
			return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, body.reason())
		}
		return nil, fmt.Errorf("%w: provider returned %d", ErrProviderUnavailable, resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: malformed provider response: %v", ErrProviderUnavailable, decodeErr)
	}
	if body.failed() {
		return nil, fmt.Errorf("%w: %s", ErrProviderUnavailable, body.reason())
	}

	transactionID := body.TransactionID
	if transactionID == "" {
		transactionID = body.TransactionIDAlt
	}

	log.Printf("[HUBNET] Accepted ref %s (transaction %s)", req.Reference, transactionID)
	return &FulfillmentResult{TransactionID: transactionID, Message: body.Message}, nil
}
