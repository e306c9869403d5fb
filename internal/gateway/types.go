package gateway

import (
	"fmt"

	"github.com/orderpulse/gateways/internal/domain/errors"
)

// Status is the canonical payment status vocabulary every provider status
// string resolves to.
type Status string

const (
	StatusPending   Status = "pending"
	StatusPaid      Status = "paid"
	StatusCancelled Status = "cancelled"
	StatusFailed    Status = "failed"
	StatusExpired   Status = "expired"
	StatusRefunded  Status = "refunded"
)

// Canonical webhook event types. The set is open (adapters may emit
// provider-verbatim types) but normalized values follow this convention.
const (
	EventPaymentCreated        = "payment.created"
	EventPaymentConfirmed      = "payment.confirmed"
	EventPaymentPaid           = "payment.paid"
	EventPaymentExpired        = "payment.expired"
	EventPaymentCancelled      = "payment.cancelled"
	EventPaymentRefunded       = "payment.refunded"
	EventPaymentFailed         = "payment.failed"
	EventChargebackCreated     = "chargeback.created"
	EventTransactionCreated    = "transaction.created"
	EventTransactionPaid       = "transaction.paid"
	EventTransactionFailed     = "transaction.failed"
	EventSubscriptionCreated   = "subscription.created"
	EventSubscriptionCancelled = "subscription.cancelled"
)

// Config holds the per-instance settings of a gateway. It is created at
// onboarding time and immutable for the lifetime of an adapter instance.
type Config struct {
	ClientID      string `json:"clientId"`
	GatewayID     string `json:"gatewayId"`
	APIKey        string `json:"apiKey,omitempty"`
	APIURL        string `json:"apiUrl,omitempty"`
	WebhookSecret string `json:"webhookSecret,omitempty"`
	ShopDomain    string `json:"shopDomain,omitempty"`

	// Extra carries provider-specific fields that have no dedicated slot
	// (e.g. accessToken, publishableKey).
	Extra map[string]any `json:"-"`
}

// Validate checks the invariants every config must satisfy regardless of
// provider type.
func (c Config) Validate() error {
	if c.ClientID == "" {
		return errors.NewValidationError("clientId", "clientId is required in gateway configuration")
	}
	if c.GatewayID == "" {
		return errors.NewValidationError("gatewayId", "gatewayId is required in gateway configuration")
	}
	return nil
}

// ConfigFromMap builds a Config from a raw onboarding map. Unknown keys are
// preserved in Extra so provider adapters can read their own fields.
func ConfigFromMap(m map[string]any) Config {
	cfg := Config{
		ClientID:      stringValue(m["clientId"]),
		GatewayID:     stringValue(m["gatewayId"]),
		APIKey:        stringValue(m["apiKey"]),
		APIURL:        stringValue(m["apiUrl"]),
		WebhookSecret: stringValue(m["webhookSecret"]),
		ShopDomain:    stringValue(m["shopDomain"]),
	}
	known := map[string]struct{}{
		"clientId": {}, "gatewayId": {}, "apiKey": {},
		"apiUrl": {}, "webhookSecret": {}, "shopDomain": {},
	}
	for k, v := range m {
		if _, ok := known[k]; ok {
			continue
		}
		if cfg.Extra == nil {
			cfg.Extra = make(map[string]any)
		}
		cfg.Extra[k] = v
	}
	return cfg
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

// Customer holds normalized customer information extracted from a webhook.
type Customer struct {
	Name     string   `json:"name,omitempty"`
	Email    string   `json:"email,omitempty"`
	Phone    string   `json:"phone,omitempty"`
	Document string   `json:"document,omitempty"`
	Address  *Address `json:"address,omitempty"`
}

// Address is a normalized postal address.
type Address struct {
	Street       string `json:"street,omitempty"`
	Number       string `json:"number,omitempty"`
	Complement   string `json:"complement,omitempty"`
	Neighborhood string `json:"neighborhood,omitempty"`
	City         string `json:"city,omitempty"`
	State        string `json:"state,omitempty"`
	Zip          string `json:"zip,omitempty"`
	Country      string `json:"country,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// LineItem is a normalized order item. Prices are integer minor units.
type LineItem struct {
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	PriceCents  int64  `json:"priceCents"`
	SKU         string `json:"sku,omitempty"`
	Variant     string `json:"variant,omitempty"`
	Vendor      string `json:"vendor,omitempty"`
	WeightGrams int64  `json:"weightGrams,omitempty"`
	ProductID   int64  `json:"productId,omitempty"`
	VariantID   int64  `json:"variantId,omitempty"`
}

// SellerInfo carries marketplace split attribution for providers that route
// funds to sub-accounts.
type SellerInfo struct {
	RecipientID string  `json:"recipientId"`
	Amount      float64 `json:"amount,omitempty"`
	NetAmount   float64 `json:"netAmount,omitempty"`
}

// WebhookEvent is the canonical event every inbound notification is
// normalized into. Exactly one event is produced per inbound call; it is
// never persisted by this subsystem.
type WebhookEvent struct {
	Processed       bool           `json:"processed"`
	EventType       string         `json:"eventType"`
	PaymentID       string         `json:"paymentId,omitempty"`
	OrderID         string         `json:"orderId,omitempty"`
	NewStatus       string         `json:"newStatus,omitempty"`
	ClientID        string         `json:"clientId"`
	GatewayID       string         `json:"gatewayId"`
	Error           string         `json:"error,omitempty"`
	OriginalPayload map[string]any `json:"originalPayload,omitempty"`
	Customer        *Customer      `json:"customer,omitempty"`
	Shipping        *Address       `json:"shippingAddress,omitempty"`
	Items           []LineItem     `json:"items,omitempty"`
	Seller          *SellerInfo    `json:"sellerInfo,omitempty"`
	AmountCents     int64          `json:"amountCents,omitempty"`
	Currency        string         `json:"currency,omitempty"`
}

// Result builds a successful event pre-filled with the adapter identity.
func Result(cfg Config, eventType string) WebhookEvent {
	return WebhookEvent{
		Processed: true,
		EventType: eventType,
		ClientID:  cfg.ClientID,
		GatewayID: cfg.GatewayID,
	}
}

// Failed builds a non-processed event. processed=false implies the error
// message is always present.
func Failed(cfg Config, eventType, format string, args ...any) WebhookEvent {
	return WebhookEvent{
		Processed: false,
		EventType: eventType,
		Error:     fmt.Sprintf(format, args...),
		ClientID:  cfg.ClientID,
		GatewayID: cfg.GatewayID,
	}
}
