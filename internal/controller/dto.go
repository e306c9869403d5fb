package controller

import (
	"time"

	"github.com/orderpulse/gateways/internal/repository/postgres"
	"github.com/orderpulse/gateways/internal/service"
)

// --- Request DTOs ---

// OnboardGatewayRequest holds the input for onboarding a gateway.
type OnboardGatewayRequest struct {
	Type   string         `json:"type" validate:"required"`
	Config map[string]any `json:"config" validate:"required"`
}

// SetGatewayActiveRequest toggles a gateway on or off.
type SetGatewayActiveRequest struct {
	Active bool `json:"active"`
}

// --- Response DTOs ---

// GatewayResponse represents an onboarded gateway in API responses.
// Credentials are never echoed back.
type GatewayResponse struct {
	ID          string    `json:"id"`
	ClientID    string    `json:"clientId"`
	GatewayID   string    `json:"gatewayId"`
	GatewayType string    `json:"gatewayType"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// OnboardGatewayResponse wraps the created gateway with schema warnings.
type OnboardGatewayResponse struct {
	Gateway  *GatewayResponse `json:"gateway"`
	Warnings []string         `json:"warnings,omitempty"`
}

// GatewayTypeResponse describes one registered provider type.
type GatewayTypeResponse struct {
	Type        string   `json:"type"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Required    []string `json:"requiredFields,omitempty"`
	Optional    []string `json:"optionalFields,omitempty"`
}

// WebhookResponse acknowledges a webhook delivery.
type WebhookResponse struct {
	Received  bool   `json:"received"`
	Processed bool   `json:"processed"`
	Duplicate bool   `json:"duplicate,omitempty"`
	EventType string `json:"eventType,omitempty"`
	Error     string `json:"error,omitempty"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// --- Conversion helpers ---

// FromGatewayRecord converts a stored gateway config to an API response.
func FromGatewayRecord(rec *postgres.GatewayConfigRecord) *GatewayResponse {
	return &GatewayResponse{
		ID:          rec.ID,
		ClientID:    rec.ClientID,
		GatewayID:   rec.GatewayID,
		GatewayType: rec.GatewayType,
		Active:      rec.Active,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}

// FromAvailableType converts a registry entry to an API response.
func FromAvailableType(t service.AvailableType) GatewayTypeResponse {
	return GatewayTypeResponse{
		Type:        t.Type,
		Name:        t.Name,
		Description: t.Description,
		Required:    t.Required,
		Optional:    t.Optional,
	}
}
