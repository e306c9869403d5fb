package asaas

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/orderpulse/gateways/internal/gateway"
)

// Type is the registry key for this adapter.
const Type = "asaas"

// SignatureHeader is the header carrying the provider's static webhook token.
const SignatureHeader = "Asaas-Access-Token"

// orderNamespace is the fixed UUIDv5 namespace used to synthesize stable
// order identifiers when the provider omits an external reference.
var orderNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

var orderDescriptionRe = regexp.MustCompile(`Pedido #(\w+)`)

// Gateway integrates a Brazilian billing provider (Asaas-compatible API).
// Its webhook traffic arrives in several incompatible shapes; ProcessWebhook
// runs a format-detection chain over them and is total by contract.
type Gateway struct {
	cfg    gateway.Config
	client *apiClient
	logger zerolog.Logger
}

// New constructs the adapter. A config missing clientId or gatewayId is a
// configuration error, rejected here rather than at webhook time.
func New(cfg gateway.Config, logger zerolog.Logger) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := logger.With().Str("gateway_type", Type).Str("gateway_id", cfg.GatewayID).Logger()
	return &Gateway{
		cfg:    cfg,
		client: newAPIClient(cfg, log),
		logger: log,
	}, nil
}

func (g *Gateway) Type() string            { return Type }
func (g *Gateway) Config() gateway.Config  { return g.cfg }
func (g *Gateway) SignatureHeader() string { return SignatureHeader }

// CreateCustomer registers a customer on the provider.
func (g *Gateway) CreateCustomer(ctx context.Context, req gateway.CustomerRequest) (*gateway.CustomerRef, error) {
	return g.client.createCustomer(ctx, req)
}

// CreatePayment creates a charge on the provider. The client and gateway
// identity travel in the payment metadata so webhooks can be attributed even
// when routed through a shared endpoint.
func (g *Gateway) CreatePayment(ctx context.Context, req gateway.PaymentRequest) (*gateway.PaymentInfo, error) {
	return g.client.createPayment(ctx, req)
}

// GetPayment fetches the current provider-side state of a payment.
func (g *Gateway) GetPayment(ctx context.Context, paymentID string) (*gateway.PaymentInfo, error) {
	return g.client.getPayment(ctx, paymentID)
}

// CancelPayment cancels an open charge.
func (g *Gateway) CancelPayment(ctx context.Context, paymentID string) (*gateway.PaymentInfo, error) {
	return g.client.cancelPayment(ctx, paymentID)
}

// ValidateSignature compares the webhook token header against the configured
// secret in constant time. When no secret or no header is configured the
// webhook is accepted, matching the provider's token-less integration mode;
// every such acceptance is logged at warn level.
func (g *Gateway) ValidateSignature(rawBody []byte, signatureHeader string, secret string) bool {
	webhookSecret := secret
	if webhookSecret == "" {
		webhookSecret = g.cfg.WebhookSecret
	}

	if webhookSecret != "" && signatureHeader != "" {
		if gateway.StaticTokenEqual(signatureHeader, webhookSecret) {
			return true
		}
		g.logger.Warn().Msg("webhook token mismatch")
		return false
	}

	g.logger.Warn().Msg("no webhook token configured or sent, accepting unsigned webhook")
	return true
}

// ProcessWebhook normalizes an inbound notification. It tries the known
// payload shapes in fixed priority order and never returns an error: any
// parse failure becomes a Processed=false event.
func (g *Gateway) ProcessWebhook(ctx context.Context, rawBody []byte, headers map[string]string) (ev gateway.WebhookEvent) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error().Interface("panic", r).Msg("panic while processing webhook")
			ev = gateway.Failed(g.cfg, "error", "error processing webhook: %v", r)
		}
	}()

	p, original, err := decodePayload(rawBody)
	if err != nil {
		g.logger.Error().Err(err).Msg("failed to parse webhook payload")
		return gateway.Failed(g.cfg, "error", "error processing webhook: %s", err.Error())
	}

	switch detectFormat(p) {
	case formatEventPayment:
		return g.processEventPayment(p, original)
	case formatTransaction:
		return g.processTransaction(p, original)
	case formatGenericStatus:
		return g.processGenericStatus(p, original)
	default:
		g.logger.Warn().Msg("unrecognized webhook payload structure")
		return gateway.Failed(g.cfg, "unknown", "invalid webhook payload structure")
	}
}

// processEventPayment handles the classic {event, payment} shape. The event
// type is carried verbatim from the source.
func (g *Gateway) processEventPayment(p *webhookPayload, original map[string]any) gateway.WebhookEvent {
	payment := p.Payment

	orderID := payment.ExternalReference
	if orderID == "" && payment.Description != "" {
		if m := orderDescriptionRe.FindStringSubmatch(payment.Description); m != nil {
			orderID = m[1]
		}
	}

	// The payment may carry ownership overrides in its JSON-encoded metadata
	// string; fall back to this instance's identity when absent or malformed.
	clientID, gatewayID := g.cfg.ClientID, g.cfg.GatewayID
	if payment.Metadata != "" {
		var meta paymentMetadata
		if err := json.Unmarshal([]byte(payment.Metadata), &meta); err != nil {
			g.logger.Warn().Err(err).Msg("failed to parse payment metadata string")
		} else {
			if meta.ClientID != "" {
				clientID = meta.ClientID
			}
			if meta.GatewayID != "" {
				gatewayID = meta.GatewayID
			}
		}
	}

	ev := gateway.Result(g.cfg, p.Event)
	ev.PaymentID = gateway.Stringify(payment.ID)
	ev.NewStatus = payment.Status
	ev.OrderID = orderID
	ev.ClientID = clientID
	ev.GatewayID = gatewayID
	ev.OriginalPayload, _ = original["payment"].(map[string]any)

	g.logger.Debug().
		Str("event_type", ev.EventType).
		Str("payment_id", ev.PaymentID).
		Str("order_id", ev.OrderID).
		Msg("webhook processed (event+payment format)")
	return ev
}

// processTransaction handles the {type: "transaction", data} shape. The
// canonical event type is synthesized from the transaction status, and the
// order identifier is derived deterministically when no external reference
// is present.
func (g *Gateway) processTransaction(p *webhookPayload, original map[string]any) gateway.WebhookEvent {
	data := p.Data

	ev := gateway.Result(g.cfg, transactionEventType("TRANSACTION", data.Status))
	ev.PaymentID = gateway.Stringify(data.ID)
	ev.NewStatus = data.Status

	switch {
	case data.ExternalRef != "":
		ev.OrderID = data.ExternalRef
	case data.SecureID != "":
		ev.OrderID = deriveOrderID(data.SecureID)
	case p.ObjectID != nil:
		ev.OrderID = deriveOrderID(gateway.Stringify(p.ObjectID))
	}

	if len(data.Splits) > 0 {
		ev.Seller = &gateway.SellerInfo{
			RecipientID: data.Splits[0].RecipientID,
			Amount:      data.Splits[0].Amount,
			NetAmount:   data.Splits[0].NetAmount,
		}
	}

	ev.Customer = gateway.ExtractCustomerInfo(data.Customer)
	ev.Shipping = gateway.NormalizeAddress(data.Shipping)
	ev.Items = convertItems(data.Items)
	ev.OriginalPayload, _ = original["data"].(map[string]any)

	g.logger.Debug().
		Str("event_type", ev.EventType).
		Str("payment_id", ev.PaymentID).
		Str("order_id", ev.OrderID).
		Bool("has_seller", ev.Seller != nil).
		Msg("webhook processed (transaction format)")
	return ev
}

// processGenericStatus is the last-resort branch for any payload carrying
// data.status, extending the transaction ID resolution with more sources.
func (g *Gateway) processGenericStatus(p *webhookPayload, original map[string]any) gateway.WebhookEvent {
	data := p.Data

	paymentID := gateway.Stringify(data.ID)
	if paymentID == "" {
		paymentID = "unknown"
	}

	ev := gateway.Result(g.cfg, transactionEventType("PAYMENT", data.Status))
	ev.PaymentID = paymentID
	ev.NewStatus = data.Status

	switch {
	case data.ExternalRef != "":
		ev.OrderID = data.ExternalRef
	case data.ExternalReference != "":
		ev.OrderID = data.ExternalReference
	case data.SecureID != "":
		ev.OrderID = deriveOrderID(data.SecureID)
	case p.ObjectID != nil:
		ev.OrderID = deriveOrderID(gateway.Stringify(p.ObjectID))
	case p.ID != nil:
		ev.OrderID = deriveOrderID(gateway.Stringify(p.ID))
	}

	ev.Customer = gateway.ExtractCustomerInfo(data.Customer)
	ev.Shipping = gateway.NormalizeAddress(data.Shipping)
	ev.Items = convertItems(data.Items)
	ev.OriginalPayload, _ = original["data"].(map[string]any)

	g.logger.Debug().
		Str("event_type", ev.EventType).
		Str("payment_id", ev.PaymentID).
		Str("order_id", ev.OrderID).
		Msg("webhook processed (generic status format)")
	return ev
}

// deriveOrderID synthesizes a stable order identifier from a provider-side
// value. Identical inputs always yield the same UUID.
func deriveOrderID(source string) string {
	return uuid.NewSHA1(orderNamespace, []byte(source)).String()
}

func transactionEventType(prefix, status string) string {
	if status == "" {
		return prefix + "_UNKNOWN"
	}
	return prefix + "_" + strings.ToUpper(status)
}

func convertItems(items []map[string]any) []gateway.LineItem {
	if len(items) == 0 {
		return nil
	}
	out := make([]gateway.LineItem, 0, len(items))
	for _, item := range items {
		li := gateway.LineItem{
			Name: firstItemString(item, "title", "name"),
			SKU:  firstItemString(item, "sku"),
		}
		if q, ok := itemNumber(item, "quantity"); ok {
			li.Quantity = int(q)
		}
		if cents, ok := itemNumber(item, "priceInCents", "unitPriceCents"); ok {
			li.PriceCents = int64(cents)
		} else if price, ok := itemNumber(item, "unitPrice", "price"); ok {
			li.PriceCents = int64(price*100 + 0.5)
		}
		out = append(out, li)
	}
	return out
}

func firstItemString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func itemNumber(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := m[k].(float64); ok {
			return f, true
		}
	}
	return 0, false
}
