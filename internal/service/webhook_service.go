package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
	"github.com/orderpulse/gateways/internal/gateway"
	"github.com/orderpulse/gateways/internal/infrastructure/observability"
)

// ConfigSource resolves the stored credentials for an onboarded gateway.
type ConfigSource interface {
	GetActive(ctx context.Context, gatewayType, gatewayID string) (map[string]any, error)
}

// EventPublisher hands a normalized event to downstream consumers.
type EventPublisher interface {
	PublishEvent(ctx context.Context, eventType string, event any) error
}

// DedupStore remembers webhook deliveries already handled.
type DedupStore interface {
	Seen(ctx context.Context, gatewayID string, rawBody []byte) (bool, error)
}

// WebhookService drives the inbound webhook pipeline: resolve the gateway,
// check the signature, drop duplicates, normalize, publish.
type WebhookService struct {
	registry  *gateway.Registry
	configs   ConfigSource
	publisher EventPublisher
	dedup     DedupStore
	metrics   *observability.Metrics
	logger    zerolog.Logger
}

func NewWebhookService(
	registry *gateway.Registry,
	configs ConfigSource,
	publisher EventPublisher,
	dedup DedupStore,
	metrics *observability.Metrics,
	logger zerolog.Logger,
) *WebhookService {
	return &WebhookService{
		registry:  registry,
		configs:   configs,
		publisher: publisher,
		dedup:     dedup,
		metrics:   metrics,
		logger:    logger,
	}
}

// Process handles one webhook delivery end to end and returns the
// normalized event. Signature failures, unknown gateways and duplicate
// deliveries are reported through the error; a processed=false event
// with a nil error means the payload was readable but not actionable.
func (s *WebhookService) Process(ctx context.Context, gatewayType, gatewayID string, rawBody []byte, headers map[string]string) (*gateway.WebhookEvent, error) {
	start := time.Now()
	s.metrics.WebhooksReceived.WithLabelValues(gatewayType).Inc()

	stored, err := s.configs.GetActive(ctx, gatewayType, gatewayID)
	if err != nil {
		return nil, err
	}

	cfg := gateway.ConfigFromMap(stored)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("stored config for %s/%s is unusable: %w", gatewayType, gatewayID, domainErrors.ErrGatewayConfigInvalid)
	}

	gw, err := s.registry.Create(gatewayType, cfg)
	if err != nil {
		return nil, err
	}

	signature := gateway.HeaderValue(headers, gw.SignatureHeader())
	if !gw.ValidateSignature(rawBody, signature, "") {
		s.metrics.SignatureFailures.WithLabelValues(gatewayType).Inc()
		return nil, fmt.Errorf("gateway %s/%s: %w", gatewayType, gatewayID, domainErrors.ErrSignatureInvalid)
	}

	if seen, err := s.dedup.Seen(ctx, gatewayID, rawBody); err != nil {
		// Dedup is best effort: a Redis outage must not drop webhooks.
		s.logger.Warn().Err(err).Str("gateway_id", gatewayID).Msg("dedup check failed, processing anyway")
	} else if seen {
		s.metrics.DuplicateWebhooks.WithLabelValues(gatewayType).Inc()
		return nil, fmt.Errorf("gateway %s/%s: %w", gatewayType, gatewayID, domainErrors.ErrDuplicateWebhook)
	}

	event := gw.ProcessWebhook(ctx, rawBody, headers)

	outcome := "ignored"
	if event.Processed {
		outcome = "processed"
		if err := s.publisher.PublishEvent(ctx, event.EventType, event); err != nil {
			return nil, fmt.Errorf("publish normalized event: %w", err)
		}
		s.metrics.EventsPublished.WithLabelValues(event.EventType).Inc()
	}

	s.metrics.WebhooksProcessed.WithLabelValues(gatewayType, outcome).Inc()
	s.metrics.WebhookDuration.WithLabelValues(gatewayType).Observe(time.Since(start).Seconds())

	s.logger.Info().
		Str("gateway_type", gatewayType).
		Str("gateway_id", gatewayID).
		Str("event_type", event.EventType).
		Bool("processed", event.Processed).
		Msg("webhook handled")

	return &event, nil
}
