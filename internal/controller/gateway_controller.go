package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
	"github.com/orderpulse/gateways/internal/middleware"
	"github.com/orderpulse/gateways/internal/service"
)

type GatewayController struct {
	gatewayService *service.GatewayService
}

func NewGatewayController(gatewayService *service.GatewayService) *GatewayController {
	return &GatewayController{gatewayService: gatewayService}
}

func (h *GatewayController) Onboard(w http.ResponseWriter, r *http.Request) {
	var req OnboardGatewayRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	// The authenticated client owns the gateway regardless of what the
	// request body claims.
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}
	req.Config["clientId"] = clientID

	rec, warnings, err := h.gatewayService.Onboard(r.Context(), req.Type, req.Config)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, OnboardGatewayResponse{
		Gateway:  FromGatewayRecord(rec),
		Warnings: warnings,
	})
}

func (h *GatewayController) List(w http.ResponseWriter, r *http.Request) {
	clientID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, domainErrors.ErrUnauthorized)
		return
	}

	records, err := h.gatewayService.ListByClient(r.Context(), clientID)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := make([]*GatewayResponse, 0, len(records))
	for _, rec := range records {
		resp = append(resp, FromGatewayRecord(rec))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *GatewayController) SetActive(w http.ResponseWriter, r *http.Request) {
	var req SetGatewayActiveRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, err)
		return
	}

	gatewayID := chi.URLParam(r, "gatewayID")
	if err := h.gatewayService.SetActive(r.Context(), gatewayID, req.Active); err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"gatewayId": gatewayID, "active": req.Active})
}

func (h *GatewayController) ListTypes(w http.ResponseWriter, r *http.Request) {
	types := h.gatewayService.AvailableTypes()
	resp := make([]GatewayTypeResponse, 0, len(types))
	for _, t := range types {
		resp = append(resp, FromAvailableType(t))
	}
	writeJSON(w, http.StatusOK, resp)
}
