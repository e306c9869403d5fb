package gateway

import (
	"context"
	"crypto/subtle"
	"strings"

	"github.com/rs/zerolog"
)

// CustomerRequest is the input for creating a customer on a provider.
type CustomerRequest struct {
	Name  string
	Email string
	Phone string
}

// CustomerRef identifies a customer created on a provider.
type CustomerRef struct {
	ID string
}

// PaymentRequest is the input for creating a payment on a provider.
// Value is in the provider's major currency unit; DueDate is YYYY-MM-DD.
type PaymentRequest struct {
	Customer    string
	Value       float64
	DueDate     string
	Description string
	Status      string
}

// PaymentInfo is the provider's view of a payment, annotated with the
// owning client and gateway instance.
type PaymentInfo struct {
	ID        string
	Status    string
	ClientID  string
	GatewayID string
	Extra     map[string]any
}

// Gateway is the capability contract every provider adapter implements.
//
// ProcessWebhook is a total function: it never returns an error and never
// panics; malformed input yields an event with Processed=false and a
// populated Error. ValidateSignature must be evaluated before ProcessWebhook;
// a false result means the caller rejects the request without normalizing it.
// CreateCustomer, CreatePayment, GetPayment and CancelPayment perform
// outbound provider I/O and are the only operations allowed to fail with an
// error.
type Gateway interface {
	// Type returns the registered gateway type key.
	Type() string
	// Config returns the instance configuration.
	Config() Config
	// SignatureHeader names the request header carrying the provider signature.
	SignatureHeader() string

	CreateCustomer(ctx context.Context, req CustomerRequest) (*CustomerRef, error)
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentInfo, error)
	// GetPayment returns nil, nil when the gateway does not implement lookup.
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
	// CancelPayment returns nil, nil when the gateway does not implement cancellation.
	CancelPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)

	ProcessWebhook(ctx context.Context, rawBody []byte, headers map[string]string) WebhookEvent
	ValidateSignature(rawBody []byte, signatureHeader string, secret string) bool
}

// NotImplemented is the shared default for optional operations: a logged
// warning and a nil result instead of an error.
func NotImplemented(logger zerolog.Logger, operation string, cfg Config) (*PaymentInfo, error) {
	logger.Warn().
		Str("operation", operation).
		Str("gateway_id", cfg.GatewayID).
		Msg("operation not implemented for this gateway")
	return nil, nil
}

// StaticTokenEqual compares a shared-secret token in constant time.
func StaticTokenEqual(header, secret string) bool {
	if len(header) != len(secret) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(header), []byte(secret)) == 1
}

// HeaderValue looks up a header by name case-insensitively from a flattened
// header map.
func HeaderValue(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}
