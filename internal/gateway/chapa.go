package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client talks to the Chapa payment gateway. The gateway is the
// source of truth for transaction outcomes; this client never
// interprets a non-200 response beyond capturing it for the caller.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

// NewClient creates a gateway client. A zero timeout falls back to
// 30s so a slow gateway cannot stall a request goroutine forever.
func NewClient(baseURL, secretKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		secretKey:  secretKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// StatusError is returned when the gateway responds with a non-200
// status. StatusCode and Body are propagated verbatim to the API
// caller.
type StatusError struct {
	StatusCode int
	Body       json.RawMessage
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gateway returned status %d", e.StatusCode)
}

// InitializeRequest is the payload for transaction/initialize.
// Amount is sent as a string, matching the gateway's contract.
type InitializeRequest struct {
	Amount                   string `json:"amount"`
	Currency                 string `json:"currency"`
	Email                    string `json:"email"`
	FirstName                string `json:"first_name"`
	LastName                 string `json:"last_name"`
	TxRef                    string `json:"tx_ref"`
	CallbackURL              string `json:"callback_url"`
	ReturnURL                string `json:"return_url"`
	CustomizationTitle       string `json:"customization[title]"`
	CustomizationDescription string `json:"customization[description]"`
}

// InitializeResponse holds the fields of a successful initialization
type InitializeResponse struct {
	CheckoutURL string
	TxRef       string
}

type initializeBody struct {
	Data struct {
		CheckoutURL string `json:"checkout_url"`
		TxRef       string `json:"tx_ref"`
	} `json:"data"`
}

type verifyBody struct {
	Data struct {
		Status string `json:"status"`
	} `json:"data"`
}

// Initialize starts a transaction with the gateway
func (c *Client) Initialize(ctx context.Context, req *InitializeRequest) (*InitializeResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal initialize payload: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/transaction/initialize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build initialize request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway initialize call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	var parsed initializeBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode initialize response: %w", err)
	}

	return &InitializeResponse{
		CheckoutURL: parsed.Data.CheckoutURL,
		TxRef:       parsed.Data.TxRef,
	}, nil
}

// Verify fetches the gateway-reported status for a transaction
func (c *Client) Verify(ctx context.Context, txRef string) (string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/transaction/verify/"+txRef, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("gateway verify call failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: body}
	}

	var parsed verifyBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode verify response: %w", err)
	}

	return parsed.Data.Status, nil
}
