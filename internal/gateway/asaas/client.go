package asaas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker/v2"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
	"github.com/orderpulse/gateways/internal/gateway"
	"github.com/orderpulse/gateways/pkg/retry"
)

// apiClient talks to the provider's REST API for the outbound operations
// (customer/payment management). Webhook processing never goes through it.
type apiClient struct {
	httpClient *http.Client
	cfg        gateway.Config
	breaker    *gobreaker.CircuitBreaker[map[string]any]
	retryCfg   retry.Config
	logger     zerolog.Logger
}

func newAPIClient(cfg gateway.Config, logger zerolog.Logger) *apiClient {
	breaker := gobreaker.NewCircuitBreaker[map[string]any](gobreaker.Settings{
		Name:        Type + ":" + cfg.GatewayID,
		MaxRequests: 10,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.6
		},
	})
	return &apiClient{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		cfg:        cfg,
		breaker:    breaker,
		retryCfg: retry.Config{
			MaxAttempts:  3,
			InitialDelay: 500 * time.Millisecond,
			MaxDelay:     5 * time.Second,
			Multiplier:   2.0,
		},
		logger: logger,
	}
}

func (c *apiClient) createCustomer(ctx context.Context, req gateway.CustomerRequest) (*gateway.CustomerRef, error) {
	body := map[string]any{
		"name":  req.Name,
		"email": req.Email,
		// The provider expects the phone in mobilePhone.
		"mobilePhone":       req.Phone,
		"externalReference": c.cfg.ClientID,
	}
	resp, err := c.do(ctx, http.MethodPost, "/customers", body)
	if err != nil {
		return nil, err
	}
	id := gateway.Stringify(resp["id"])
	if id == "" {
		return nil, fmt.Errorf("provider returned customer without id: %w", domainErrors.ErrProviderRejected)
	}
	return &gateway.CustomerRef{ID: id}, nil
}

func (c *apiClient) createPayment(ctx context.Context, req gateway.PaymentRequest) (*gateway.PaymentInfo, error) {
	meta, err := json.Marshal(paymentMetadata{ClientID: c.cfg.ClientID, GatewayID: c.cfg.GatewayID})
	if err != nil {
		return nil, fmt.Errorf("marshal payment metadata: %w", err)
	}
	body := map[string]any{
		"customer":          req.Customer,
		"billingType":       "PIX",
		"value":             req.Value,
		"dueDate":           req.DueDate,
		"description":       req.Description,
		"externalReference": "client-" + c.cfg.ClientID,
		"metadata":          string(meta),
	}
	resp, err := c.do(ctx, http.MethodPost, "/payments", body)
	if err != nil {
		return nil, err
	}
	return c.paymentInfo(resp), nil
}

func (c *apiClient) getPayment(ctx context.Context, paymentID string) (*gateway.PaymentInfo, error) {
	resp, err := c.do(ctx, http.MethodGet, "/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	return c.paymentInfo(resp), nil
}

func (c *apiClient) cancelPayment(ctx context.Context, paymentID string) (*gateway.PaymentInfo, error) {
	resp, err := c.do(ctx, http.MethodDelete, "/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	return c.paymentInfo(resp), nil
}

func (c *apiClient) paymentInfo(resp map[string]any) *gateway.PaymentInfo {
	info := &gateway.PaymentInfo{
		ID:        gateway.Stringify(resp["id"]),
		Status:    gateway.Stringify(resp["status"]),
		ClientID:  c.cfg.ClientID,
		GatewayID: c.cfg.GatewayID,
		Extra:     make(map[string]any),
	}
	for k, v := range resp {
		if k == "id" || k == "status" {
			continue
		}
		info.Extra[k] = v
	}
	return info
}

// do runs one API call through the circuit breaker with retries on
// transport-level failures. Provider rejections (4xx) are not retried.
func (c *apiClient) do(ctx context.Context, method, path string, body any) (map[string]any, error) {
	return c.breaker.Execute(func() (map[string]any, error) {
		return retry.DoWithResult(ctx, c.retryCfg, func() (map[string]any, error) {
			resp, err := c.request(ctx, method, path, body)
			if err != nil {
				return nil, err
			}
			return resp, nil
		})
	})
}

func (c *apiClient) request(ctx context.Context, method, path string, body any) (map[string]any, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.APIURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("access_token", c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domainErrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn().
			Int("status", resp.StatusCode).
			Str("path", path).
			Msg("provider API call failed")
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %s %s returned %d", domainErrors.ErrProviderUnavailable, method, path, resp.StatusCode)
		}
		// Client errors are final, retrying cannot help.
		return nil, retry.Unrecoverable(fmt.Errorf("%w: %s %s returned %d", domainErrors.ErrProviderRejected, method, path, resp.StatusCode))
	}

	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return nil, fmt.Errorf("decode provider response: %w", err)
		}
	}
	return decoded, nil
}
