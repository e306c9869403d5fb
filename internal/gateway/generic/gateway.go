package generic

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
	"github.com/orderpulse/gateways/internal/gateway"
)

// SignatureHeader is the shared-token header checked by providers routed
// through this adapter.
const SignatureHeader = "X-Webhook-Token"

// Gateway is the fallback adapter for provider types without a dedicated
// implementation (registered today for mercadopago and stripe). It relies on
// the per-type normalization tables and the best-effort field extractors, so
// a newly onboarded provider can flow through the pipeline before a richer
// adapter exists.
type Gateway struct {
	gatewayType string
	cfg         gateway.Config
	logger      zerolog.Logger
}

func New(gatewayType string, cfg gateway.Config, logger zerolog.Logger) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gateway{
		gatewayType: gatewayType,
		cfg:         cfg,
		logger:      logger.With().Str("gateway_type", gatewayType).Str("gateway_id", cfg.GatewayID).Logger(),
	}, nil
}

func (g *Gateway) Type() string            { return g.gatewayType }
func (g *Gateway) Config() gateway.Config  { return g.cfg }
func (g *Gateway) SignatureHeader() string { return SignatureHeader }

func (g *Gateway) CreateCustomer(ctx context.Context, req gateway.CustomerRequest) (*gateway.CustomerRef, error) {
	return nil, domainErrors.NewDomainError("not_supported",
		"outbound customer creation requires a dedicated adapter for "+g.gatewayType,
		domainErrors.ErrOperationNotSupported)
}

func (g *Gateway) CreatePayment(ctx context.Context, req gateway.PaymentRequest) (*gateway.PaymentInfo, error) {
	return nil, domainErrors.NewDomainError("not_supported",
		"outbound payment creation requires a dedicated adapter for "+g.gatewayType,
		domainErrors.ErrOperationNotSupported)
}

func (g *Gateway) GetPayment(ctx context.Context, paymentID string) (*gateway.PaymentInfo, error) {
	return gateway.NotImplemented(g.logger, "GetPayment", g.cfg)
}

func (g *Gateway) CancelPayment(ctx context.Context, paymentID string) (*gateway.PaymentInfo, error) {
	return gateway.NotImplemented(g.logger, "CancelPayment", g.cfg)
}

// ValidateSignature does a constant-time shared-token comparison. When no
// secret or header is configured the webhook is accepted with a warning,
// mirroring the permissive default of the token-based providers.
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

// ProcessWebhook probes the payload with the generic extractors. A payload
// yielding neither a payment identifier nor a status is unrecognized.
func (g *Gateway) ProcessWebhook(ctx context.Context, rawBody []byte, headers map[string]string) (ev gateway.WebhookEvent) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error().Interface("panic", r).Msg("panic while processing webhook")
			ev = gateway.Failed(g.cfg, "error", "error processing webhook: %v", r)
		}
	}()

	var payload map[string]any
	if err := json.Unmarshal(rawBody, &payload); err != nil {
		g.logger.Error().Err(err).Msg("failed to parse webhook payload")
		return gateway.Failed(g.cfg, "error", "error processing webhook: %s", err.Error())
	}

	// Providers nest the interesting part under data more often than not.
	body := payload
	if data, ok := payload["data"].(map[string]any); ok {
		body = data
	}

	paymentID := firstScalar(body, "id", "payment_id", "transaction_id")
	status := firstScalar(body, "status")
	if paymentID == "" && status == "" {
		g.logger.Warn().Msg("unrecognized webhook payload structure")
		return gateway.Failed(g.cfg, "unknown", "no payment identifier or status found in payload")
	}

	rawEvent := firstScalar(payload, "event", "type", "action")
	eventType := gateway.NormalizeEventType(g.gatewayType, rawEvent)

	ev = gateway.Result(g.cfg, eventType)
	ev.PaymentID = paymentID
	ev.NewStatus = string(gateway.NormalizeStatus(g.gatewayType, status))
	ev.OrderID = gateway.ExtractOrderID(body)
	if ev.OrderID == "" {
		ev.OrderID = gateway.ExtractOrderID(payload)
	}
	ev.Customer = gateway.ExtractCustomerInfo(body)
	if amount := gateway.ExtractPaymentAmount(body); amount > 0 {
		ev.AmountCents = int64(amount*100 + 0.5)
	}
	ev.OriginalPayload = payload

	g.logger.Debug().
		Str("event_type", ev.EventType).
		Str("payment_id", ev.PaymentID).
		Str("new_status", ev.NewStatus).
		Msg("webhook processed (generic adapter)")
	return ev
}

func firstScalar(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s := gateway.Stringify(v); s != "" {
				return s
			}
		}
	}
	return ""
}
