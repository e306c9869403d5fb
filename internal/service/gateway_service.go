package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
	"github.com/orderpulse/gateways/internal/gateway"
	"github.com/orderpulse/gateways/internal/repository/postgres"
)

// ConfigStore persists onboarded gateway configurations.
type ConfigStore interface {
	Create(ctx context.Context, rec *postgres.GatewayConfigRecord) error
	ListByClient(ctx context.Context, clientID string) ([]*postgres.GatewayConfigRecord, error)
	SetActive(ctx context.Context, gatewayID string, active bool) error
}

// GatewayService handles gateway onboarding and discovery.
type GatewayService struct {
	registry  *gateway.Registry
	validator *gateway.ConfigValidator
	store     ConfigStore
	logger    zerolog.Logger
}

func NewGatewayService(
	registry *gateway.Registry,
	validator *gateway.ConfigValidator,
	store ConfigStore,
	logger zerolog.Logger,
) *GatewayService {
	return &GatewayService{
		registry:  registry,
		validator: validator,
		store:     store,
		logger:    logger,
	}
}

// Onboard validates a gateway configuration against the provider schema and
// persists it. Schema warnings do not block onboarding; they are returned to
// the caller and logged.
func (s *GatewayService) Onboard(ctx context.Context, gatewayType string, config map[string]any) (*postgres.GatewayConfigRecord, []string, error) {
	if !s.registry.IsRegistered(gatewayType) {
		return nil, nil, &gateway.UnregisteredTypeError{
			Type:      gatewayType,
			Available: s.registry.AvailableTypes(),
		}
	}

	result := s.validator.Validate(gatewayType, config)
	if !result.IsValid {
		return nil, result.Warnings, fmt.Errorf("%w: %v", domainErrors.ErrGatewayConfigInvalid, result.Errors)
	}
	for _, w := range result.Warnings {
		s.logger.Warn().Str("gateway_type", gatewayType).Msg(w)
	}

	cfg := gateway.ConfigFromMap(config)
	rec := &postgres.GatewayConfigRecord{
		ClientID:    cfg.ClientID,
		GatewayID:   cfg.GatewayID,
		GatewayType: gatewayType,
		Config:      config,
		Active:      true,
	}
	if err := s.store.Create(ctx, rec); err != nil {
		return nil, result.Warnings, err
	}

	s.logger.Info().
		Str("gateway_type", gatewayType).
		Str("gateway_id", rec.GatewayID).
		Str("client_id", rec.ClientID).
		Msg("gateway onboarded")
	return rec, result.Warnings, nil
}

func (s *GatewayService) ListByClient(ctx context.Context, clientID string) ([]*postgres.GatewayConfigRecord, error) {
	return s.store.ListByClient(ctx, clientID)
}

func (s *GatewayService) SetActive(ctx context.Context, gatewayID string, active bool) error {
	return s.store.SetActive(ctx, gatewayID, active)
}

// AvailableType describes one registered provider type.
type AvailableType struct {
	Type        string
	Name        string
	Description string
	Required    []string
	Optional    []string
}

// AvailableTypes lists the registered provider types with their schema
// fields, for onboarding UIs.
func (s *GatewayService) AvailableTypes() []AvailableType {
	var out []AvailableType
	for _, t := range s.registry.AvailableTypes() {
		info, ok := s.registry.Info(t)
		if !ok {
			continue
		}
		at := AvailableType{Type: t, Name: info.Name, Description: info.Description}
		if info.Schema != nil {
			at.Required = info.Schema.Required
			at.Optional = info.Schema.Optional
		}
		out = append(out, at)
	}
	return out
}
