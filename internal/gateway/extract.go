package gateway

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
)

// Best-effort extractors for providers without a dedicated adapter. Each
// probes an ordered list of plausible field names across heterogeneous
// payload shapes and returns the first non-empty match.

var orderRefRe = regexp.MustCompile(`(?i)(?:pedido|order)[:\s#]*(\w+)`)

// ExtractOrderID probes common order-reference fields, falling back to a
// "Pedido #<id>" / "Order #<id>" pattern inside a description field.
func ExtractOrderID(payload map[string]any) string {
	candidates := []any{
		payload["orderId"],
		payload["order_id"],
		payload["externalReference"],
		payload["external_reference"],
		nestedValue(payload, "metadata", "orderId"),
		nestedValue(payload, "metadata", "order_id"),
		payload["reference"],
		payload["reference_id"],
		payload["merchant_order_id"],
	}
	for _, c := range candidates {
		if s, ok := c.(string); ok && s != "" {
			return s
		}
	}
	if desc, ok := payload["description"].(string); ok {
		if m := orderRefRe.FindStringSubmatch(desc); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractCustomerInfo probes customer/payer/billing_details containers and
// the payload root for customer fields.
func ExtractCustomerInfo(payload map[string]any) *Customer {
	container := payload
	for _, key := range []string{"customer", "payer", "billing_details"} {
		if m, ok := payload[key].(map[string]any); ok {
			container = m
			break
		}
	}
	if container == nil {
		return nil
	}

	document := firstString(container, "document", "cpf", "cnpj", "tax_id")
	// Some providers nest the document as {type, number}.
	if doc, ok := container["document"].(map[string]any); ok {
		if n := firstString(doc, "number"); n != "" {
			document = n
		}
	}

	c := &Customer{
		Name:     firstString(container, "name", "first_name", "full_name", "nome"),
		Email:    firstString(container, "email", "email_address"),
		Phone:    firstString(container, "phone", "phone_number", "mobile_phone", "telefone"),
		Document: document,
	}
	if addr, ok := container["address"].(map[string]any); ok {
		c.Address = NormalizeAddress(addr)
	}
	if c.Name == "" && c.Email == "" && c.Phone == "" && c.Document == "" && c.Address == nil {
		return nil
	}
	return c
}

// ExtractPaymentAmount probes common amount fields and returns the first
// positive number, in whatever unit the provider used.
func ExtractPaymentAmount(payload map[string]any) float64 {
	for _, key := range []string{"amount", "value", "total", "total_amount", "transaction_amount", "amount_cents", "valor"} {
		if f, ok := numberValue(payload[key]); ok && f > 0 {
			return f
		}
	}
	return 0
}

// NormalizeAddress maps heterogeneous address shapes into the canonical
// Address. Returns nil for a nil input map.
func NormalizeAddress(addr map[string]any) *Address {
	if addr == nil {
		return nil
	}
	country := firstString(addr, "country", "country_code", "pais")
	if country == "" {
		country = "BR"
	}
	return &Address{
		Street:       firstString(addr, "street", "street_name", "logradouro", "address_line_1", "address1"),
		Number:       firstString(addr, "number", "street_number", "numero"),
		Complement:   firstString(addr, "complement", "complemento", "address_line_2", "address2"),
		Neighborhood: firstString(addr, "neighborhood", "district", "bairro"),
		City:         firstString(addr, "city", "cidade"),
		State:        firstString(addr, "state", "state_code", "estado", "uf", "province"),
		Zip:          firstString(addr, "zip_code", "postal_code", "cep", "zip"),
		Country:      country,
		Phone:        firstString(addr, "phone"),
	}
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func nestedValue(m map[string]any, keys ...string) any {
	var cur any = m
	for _, k := range keys {
		mm, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = mm[k]
	}
	return cur
}

func numberValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}

// Stringify renders a JSON scalar identifier as a string, trimming the
// float decoration json.Unmarshal gives numeric IDs.
func Stringify(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == float64(int64(s)) {
			return strconv.FormatInt(int64(s), 10)
		}
		return strconv.FormatFloat(s, 'f', -1, 64)
	case json.Number:
		return s.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
