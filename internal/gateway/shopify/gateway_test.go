package shopify

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
	"github.com/orderpulse/gateways/internal/gateway"
)

func testGateway(t *testing.T, secret string) *Gateway {
	t.Helper()
	g, err := New(gateway.Config{
		ClientID:      "client_1",
		GatewayID:     "gw_1",
		WebhookSecret: secret,
	}, zerolog.Nop())
	require.NoError(t, err)
	return g
}

const paidOrderBody = `{
	"id": 555,
	"email": "buyer@example.com",
	"name": "#1001",
	"total_price": "123.45",
	"currency": "BRL",
	"financial_status": "paid",
	"order_number": 1001,
	"customer": {"first_name": "Ana", "last_name": "Souza", "phone": "11999990000"},
	"shipping_address": {
		"address1": "Rua das Flores 100",
		"address2": "Apto 12",
		"city": "Sao Paulo",
		"province": "SP",
		"zip": "01000-000",
		"country": "Brazil"
	},
	"line_items": [
		{"title": "Shirt", "quantity": 2, "price": "45.00", "sku": "SH-1", "variant_title": "M", "vendor": "Acme", "product_id": 71, "variant_id": 72, "grams": 300},
		{"title": "Sticker", "quantity": 1, "price": "33.45"}
	]
}`

func TestProcessWebhook_PaidOrder(t *testing.T) {
	g := testGateway(t, "")

	ev := g.ProcessWebhook(context.Background(), []byte(paidOrderBody), nil)

	assert.True(t, ev.Processed)
	assert.Equal(t, "orders/paid", ev.EventType)
	assert.Equal(t, "555", ev.PaymentID)
	assert.Equal(t, "555", ev.OrderID)
	assert.Equal(t, string(gateway.StatusPaid), ev.NewStatus)
	assert.Equal(t, int64(12345), ev.AmountCents)
	assert.Equal(t, "BRL", ev.Currency)

	require.NotNil(t, ev.Customer)
	assert.Equal(t, "Ana Souza", ev.Customer.Name)
	assert.Equal(t, "buyer@example.com", ev.Customer.Email)
	assert.Equal(t, "11999990000", ev.Customer.Phone)

	require.NotNil(t, ev.Shipping)
	assert.Equal(t, "Rua das Flores 100", ev.Shipping.Street)
	assert.Equal(t, "Apto 12", ev.Shipping.Complement)
	assert.Equal(t, "Sao Paulo", ev.Shipping.City)
	assert.Equal(t, "SP", ev.Shipping.State)

	require.Len(t, ev.Items, 2)
	assert.Equal(t, "Shirt", ev.Items[0].Name)
	assert.Equal(t, 2, ev.Items[0].Quantity)
	assert.Equal(t, int64(4500), ev.Items[0].PriceCents)
	assert.Equal(t, "SH-1", ev.Items[0].SKU)
	assert.Equal(t, "M", ev.Items[0].Variant)
	assert.Equal(t, "Acme", ev.Items[0].Vendor)
	assert.Equal(t, int64(300), ev.Items[0].WeightGrams)
	assert.Equal(t, int64(71), ev.Items[0].ProductID)
	assert.Equal(t, int64(3345), ev.Items[1].PriceCents)
}

func TestProcessWebhook_NoCustomerFallsBackToPlaceholder(t *testing.T) {
	g := testGateway(t, "")

	body := []byte(`{
		"id": 556,
		"email": "buyer@example.com",
		"total_price": "10.00",
		"financial_status": "paid",
		"shipping_address": {"address1": "Rua A 1", "city": "Recife", "phone": "81988880000"},
		"line_items": []
	}`)

	ev := g.ProcessWebhook(context.Background(), body, nil)
	assert.True(t, ev.Processed)
	require.NotNil(t, ev.Customer)
	assert.Equal(t, "Storefront customer", ev.Customer.Name)
	assert.Equal(t, "81988880000", ev.Customer.Phone)
}

func TestProcessWebhook_IgnoresNonPaidOrders(t *testing.T) {
	g := testGateway(t, "")

	tests := []struct {
		name string
		body string
	}{
		{"pending financial status", `{"id": 1, "email": "a@b.c", "total_price": "1.00", "financial_status": "pending", "line_items": []}`},
		{"missing id", `{"email": "a@b.c", "total_price": "1.00", "financial_status": "paid", "line_items": []}`},
		{"missing email", `{"id": 1, "total_price": "1.00", "financial_status": "paid", "line_items": []}`},
		{"numeric total price", `{"id": 1, "email": "a@b.c", "total_price": 1.0, "financial_status": "paid", "line_items": []}`},
		{"missing line items", `{"id": 1, "email": "a@b.c", "total_price": "1.00", "financial_status": "paid"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := g.ProcessWebhook(context.Background(), []byte(tt.body), nil)
			assert.False(t, ev.Processed)
			assert.Equal(t, "orders/ignored", ev.EventType)
		})
	}
}

func TestProcessWebhook_RejectsOrdersWithoutAddress(t *testing.T) {
	g := testGateway(t, "")

	tests := []struct {
		name string
		body string
	}{
		{"no shipping address", `{"id": 1, "email": "a@b.c", "total_price": "1.00", "financial_status": "paid", "line_items": []}`},
		{"missing address1", `{"id": 1, "email": "a@b.c", "total_price": "1.00", "financial_status": "paid", "line_items": [], "shipping_address": {"city": "Recife"}}`},
		{"missing city", `{"id": 1, "email": "a@b.c", "total_price": "1.00", "financial_status": "paid", "line_items": [], "shipping_address": {"address1": "Rua A 1"}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := g.ProcessWebhook(context.Background(), []byte(tt.body), nil)
			assert.False(t, ev.Processed)
			assert.Equal(t, "orders/no_address", ev.EventType)
			assert.Equal(t, "order has no valid shipping address", ev.Error)
		})
	}
}

func TestProcessWebhook_InvalidJSON(t *testing.T) {
	g := testGateway(t, "")

	ev := g.ProcessWebhook(context.Background(), []byte(`{broken`), nil)
	assert.False(t, ev.Processed)
	assert.Equal(t, "error", ev.EventType)
	assert.NotEmpty(t, ev.Error)
}

func signBody(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestValidateSignature(t *testing.T) {
	g := testGateway(t, "shpss_secret")
	body := []byte(paidOrderBody)

	assert.True(t, g.ValidateSignature(body, signBody("shpss_secret", body), ""))
	assert.False(t, g.ValidateSignature(body, signBody("other_secret", body), ""))
	assert.False(t, g.ValidateSignature([]byte("tampered"), signBody("shpss_secret", body), ""))
}

func TestValidateSignature_Rejections(t *testing.T) {
	g := testGateway(t, "shpss_secret")
	body := []byte(`{}`)

	// Missing header.
	assert.False(t, g.ValidateSignature(body, "", ""))
	// Not base64.
	assert.False(t, g.ValidateSignature(body, "%%%not-base64%%%", ""))
	// Valid base64 but wrong digest length.
	assert.False(t, g.ValidateSignature(body, base64.StdEncoding.EncodeToString([]byte("short")), ""))

	// No secret configured anywhere.
	unsecured := testGateway(t, "")
	assert.False(t, unsecured.ValidateSignature(body, signBody("shpss_secret", body), ""))

	// Explicit secret overrides the configured one.
	assert.True(t, unsecured.ValidateSignature(body, signBody("explicit", body), "explicit"))
}

func TestOutboundOperationsNotSupported(t *testing.T) {
	g := testGateway(t, "")

	_, err := g.CreateCustomer(context.Background(), gateway.CustomerRequest{})
	assert.ErrorIs(t, err, domainErrors.ErrOperationNotSupported)

	_, err = g.CreatePayment(context.Background(), gateway.PaymentRequest{})
	assert.ErrorIs(t, err, domainErrors.ErrOperationNotSupported)
}
