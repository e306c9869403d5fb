package asaas

import (
	"encoding/json"
)

// payloadFormat tags the known wire shapes this provider sends. The same
// provider emits several incompatible variants, so detection runs in a fixed
// priority order and falls through to formatUnknown.
type payloadFormat int

const (
	formatUnknown payloadFormat = iota
	// formatEventPayment is the classic {event, payment} notification.
	formatEventPayment
	// formatTransaction is the newer {type: "transaction", data} shape.
	formatTransaction
	// formatGenericStatus catches any remaining payload with data.status.
	formatGenericStatus
)

type webhookPayload struct {
	Event    string          `json:"event"`
	Payment  *paymentBody    `json:"payment"`
	Type     string          `json:"type"`
	Data     *transactionBody `json:"data"`
	ObjectID any             `json:"objectId"`
	ID       any             `json:"id"`
}

type paymentBody struct {
	ID                any    `json:"id"`
	Status            string `json:"status"`
	ExternalReference string `json:"externalReference"`
	Description       string `json:"description"`
	// Metadata is a JSON-encoded string, not an object.
	Metadata string `json:"metadata"`
}

type transactionBody struct {
	ID                any              `json:"id"`
	Status            string           `json:"status"`
	ExternalRef       string           `json:"externalRef"`
	ExternalReference string           `json:"externalReference"`
	SecureID          string           `json:"secureId"`
	CompanyID         any              `json:"companyId"`
	Origin            string           `json:"origin"`
	Splits            []splitBody      `json:"splits"`
	Items             []map[string]any `json:"items"`
	Customer          map[string]any   `json:"customer"`
	Shipping          map[string]any   `json:"shipping"`
}

type splitBody struct {
	RecipientID string  `json:"recipientId"`
	Amount      float64 `json:"amount"`
	NetAmount   float64 `json:"netAmount"`
}

// paymentMetadata is the JSON document embedded in the payment metadata
// string; it carries ownership overrides set when the payment was created.
type paymentMetadata struct {
	ClientID  string `json:"client_id"`
	GatewayID string `json:"gateway_id"`
}

func decodePayload(raw []byte) (*webhookPayload, map[string]any, error) {
	var p webhookPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, nil, err
	}
	var original map[string]any
	if err := json.Unmarshal(raw, &original); err != nil {
		return nil, nil, err
	}
	return &p, original, nil
}

func detectFormat(p *webhookPayload) payloadFormat {
	switch {
	case p.Event != "" && p.Payment != nil:
		return formatEventPayment
	case p.Type == "transaction" && p.Data != nil:
		return formatTransaction
	case p.Data != nil && p.Data.Status != "":
		return formatGenericStatus
	default:
		return formatUnknown
	}
}
