package controller

import (
	"encoding/json"
	"errors"
	"net/http"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
	"github.com/orderpulse/gateways/internal/gateway"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

type errorMapping struct {
	err    error
	status int
	code   string
}

var errorMappings = []errorMapping{
	{domainErrors.ErrGatewayNotFound, http.StatusNotFound, "gateway_not_found"},
	{domainErrors.ErrGatewayNotRegistered, http.StatusNotFound, "unknown_gateway_type"},
	{domainErrors.ErrSignatureInvalid, http.StatusUnauthorized, "invalid_signature"},
	{domainErrors.ErrGatewayConfigInvalid, http.StatusUnprocessableEntity, "invalid_config"},
	{domainErrors.ErrPayloadNotJSON, http.StatusBadRequest, "invalid_payload"},
	{domainErrors.ErrOperationNotSupported, http.StatusUnprocessableEntity, "not_supported"},
	{domainErrors.ErrProviderUnavailable, http.StatusServiceUnavailable, "provider_unavailable"},
	{domainErrors.ErrProviderRejected, http.StatusUnprocessableEntity, "provider_rejected"},
	{domainErrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
	{domainErrors.ErrForbidden, http.StatusForbidden, "forbidden"},
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	resp := ErrorResponse{Error: err.Error()}

	var validationErr *domainErrors.ValidationError
	if errors.As(err, &validationErr) {
		resp.Code = "validation_error"
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}

	var unregistered *gateway.UnregisteredTypeError
	if errors.As(err, &unregistered) {
		resp.Code = "unknown_gateway_type"
		writeJSON(w, http.StatusNotFound, resp)
		return
	}

	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			resp.Code = m.code
			writeJSON(w, m.status, resp)
			return
		}
	}

	var domainErr *domainErrors.DomainError
	if errors.As(err, &domainErr) {
		resp.Code = domainErr.Code
		writeJSON(w, http.StatusUnprocessableEntity, resp)
		return
	}

	log.Error().Err(err).Msg("unhandled error in handler")
	resp.Code = "internal_error"
	resp.Error = "internal server error"
	writeJSON(w, http.StatusInternalServerError, resp)
}

func decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return domainErrors.NewValidationError("body", "invalid JSON: "+err.Error())
	}
	if err := validate.Struct(dst); err != nil {
		if ve, ok := err.(validator.ValidationErrors); ok && len(ve) > 0 {
			return domainErrors.NewValidationError(ve[0].Field(), ve[0].Tag()+" validation failed")
		}
		return domainErrors.NewValidationError("body", err.Error())
	}
	return nil
}
