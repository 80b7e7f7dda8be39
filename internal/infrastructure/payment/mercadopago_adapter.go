package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/backoffice/backend/internal/application/checkout"
	"github.com/backoffice/backend/internal/infrastructure/config"
)

var (
	// ErrGatewayUnavailable means the provider could not be reached at all
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrGatewayRequestFailed means the provider rejected the request
	ErrGatewayRequestFailed = errors.New("payment gateway request failed")
)

// MercadoPagoAdapter implements checkout.PaymentGateway against the
// Mercado Pago Checkout Pro REST API.
type MercadoPagoAdapter struct {
	cfg        config.MercadoPagoConfig
	httpClient *http.Client
}

// NewMercadoPagoAdapter creates an adapter from the gateway section of the
// application config.
func NewMercadoPagoAdapter(cfg config.MercadoPagoConfig) (*MercadoPagoAdapter, error) {
	if cfg.AccessToken == "" {
		return nil, errors.New("mercadopago: access token is required")
	}
	if cfg.BaseURL == "" {
		return nil, errors.New("mercadopago: base URL is required")
	}

	return &MercadoPagoAdapter{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// CreatePreference opens a Checkout Pro preference for the order's amount due
func (a *MercadoPagoAdapter) CreatePreference(ctx context.Context, req checkout.PreferenceRequest) (*checkout.Preference, error) {
	body := mpPreferenceRequest{
		ExternalReference: req.ExternalReference,
		NotificationURL:   a.cfg.NotifyURL,
		Items: []mpPreferenceItem{
			{
				Title:     req.Title,
				Quantity:  1,
				UnitPrice: req.Amount,
			},
		},
	}
	if req.PayerEmail != "" {
		body.Payer = &mpPayer{Email: req.PayerEmail}
	}
	if a.cfg.BackURL != "" {
		body.BackURLs = &mpBackURLs{
			Success: a.cfg.BackURL,
			Pending: a.cfg.BackURL,
			Failure: a.cfg.BackURL,
		}
		body.AutoReturn = "approved"
	}

	var resp mpPreferenceResponse
	if err := a.doJSON(ctx, http.MethodPost, "/checkout/preferences", body, &resp); err != nil {
		return nil, err
	}
	if resp.ID == "" {
		return nil, fmt.Errorf("%w: preference response missing id", ErrGatewayRequestFailed)
	}

	return &checkout.Preference{
		ID:        resp.ID,
		InitPoint: resp.InitPoint,
	}, nil
}

// GetPayment fetches the current state of a payment by provider ID
func (a *MercadoPagoAdapter) GetPayment(ctx context.Context, paymentID string) (*checkout.PaymentInfo, error) {
	var resp mpPaymentResponse
	path := fmt.Sprintf("/v1/payments/%s", paymentID)
	if err := a.doJSON(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}

	return &checkout.PaymentInfo{
		PaymentID:         fmt.Sprintf("%d", resp.ID),
		Status:            mapPaymentStatus(resp.Status),
		ExternalReference: resp.ExternalReference,
	}, nil
}

func (a *MercadoPagoAdapter) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("mercadopago: failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.cfg.BaseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("mercadopago: failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.AccessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("mercadopago: failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var errResp mpErrorResponse
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%w: %s (HTTP %d)", ErrGatewayRequestFailed, errResp.Message, resp.StatusCode)
		}
		return fmt.Errorf("%w: HTTP %d", ErrGatewayRequestFailed, resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("mercadopago: failed to parse response: %w", err)
	}
	return nil
}

// mapPaymentStatus collapses the provider's payment states into the three the
// checkout flow cares about. Anything the provider still considers in flight
// stays pending so the webhook handler waits for the next notification.
func mapPaymentStatus(status string) checkout.PaymentStatus {
	switch status {
	case "approved", "authorized":
		return checkout.PaymentStatusApproved
	case "pending", "in_process", "in_mediation":
		return checkout.PaymentStatusPending
	default:
		return checkout.PaymentStatusRejected
	}
}
