package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
	"github.com/orderpulse/gateways/internal/service"
)

type WebhookController struct {
	webhookService *service.WebhookService
	maxBodyBytes   int64
}

func NewWebhookController(webhookService *service.WebhookService, maxBodyBytes int64) *WebhookController {
	return &WebhookController{
		webhookService: webhookService,
		maxBodyBytes:   maxBodyBytes,
	}
}

// Receive handles POST /webhooks/{type}/{gatewayID}. Providers retry on
// non-2xx, so duplicates and unrecognized payloads are acknowledged with 200
// while signature failures and unknown gateways surface their real status.
func (h *WebhookController) Receive(w http.ResponseWriter, r *http.Request) {
	gatewayType := chi.URLParam(r, "type")
	gatewayID := chi.URLParam(r, "gatewayID")

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	rawBody, err := io.ReadAll(r.Body)
	if err != nil {
		writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{
			Error: "request body too large",
			Code:  "payload_too_large",
		})
		return
	}

	headers := make(map[string]string, len(r.Header))
	for name := range r.Header {
		headers[name] = r.Header.Get(name)
	}

	event, err := h.webhookService.Process(r.Context(), gatewayType, gatewayID, rawBody, headers)
	if err != nil {
		if errors.Is(err, domainErrors.ErrDuplicateWebhook) {
			writeJSON(w, http.StatusOK, WebhookResponse{Received: true, Duplicate: true})
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, WebhookResponse{
		Received:  true,
		Processed: event.Processed,
		EventType: event.EventType,
		Error:     event.Error,
	})
}
