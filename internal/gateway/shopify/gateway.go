package shopify

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
	"github.com/orderpulse/gateways/internal/gateway"
)

// Type is the registry key for this adapter.
const Type = "shopify"

// SignatureHeader carries the base64 HMAC-SHA256 digest Shopify computes
// over the raw request body.
const SignatureHeader = "X-Shopify-Hmac-Sha256"

// Gateway ingests storefront orders/paid webhooks. Customers and payments
// are managed by the storefront platform itself, so the outbound operations
// are rejected or unimplemented.
type Gateway struct {
	cfg    gateway.Config
	logger zerolog.Logger
}

func New(cfg gateway.Config, logger zerolog.Logger) (*Gateway, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Gateway{
		cfg:    cfg,
		logger: logger.With().Str("gateway_type", Type).Str("gateway_id", cfg.GatewayID).Logger(),
	}, nil
}

func (g *Gateway) Type() string            { return Type }
func (g *Gateway) Config() gateway.Config  { return g.cfg }
func (g *Gateway) SignatureHeader() string { return SignatureHeader }

func (g *Gateway) CreateCustomer(ctx context.Context, req gateway.CustomerRequest) (*gateway.CustomerRef, error) {
	return nil, &domainErrors.DomainError{
		Code:    "not_supported",
		Message: "customers are managed by the storefront platform",
		Err:     domainErrors.ErrOperationNotSupported,
	}
}

func (g *Gateway) CreatePayment(ctx context.Context, req gateway.PaymentRequest) (*gateway.PaymentInfo, error) {
	return nil, &domainErrors.DomainError{
		Code:    "not_supported",
		Message: "payments are processed by the storefront platform",
		Err:     domainErrors.ErrOperationNotSupported,
	}
}

func (g *Gateway) GetPayment(ctx context.Context, paymentID string) (*gateway.PaymentInfo, error) {
	return gateway.NotImplemented(g.logger, "GetPayment", g.cfg)
}

func (g *Gateway) CancelPayment(ctx context.Context, paymentID string) (*gateway.PaymentInfo, error) {
	return gateway.NotImplemented(g.logger, "CancelPayment", g.cfg)
}

// paidOrder is the single event shape this adapter recognizes.
type paidOrder struct {
	ID              int64          `json:"id"`
	Email           string         `json:"email"`
	Name            string         `json:"name"`
	TotalPrice      string         `json:"total_price"`
	Currency        string         `json:"currency"`
	FinancialStatus string         `json:"financial_status"`
	FulfillmentStatus *string      `json:"fulfillment_status"`
	OrderNumber     int64          `json:"order_number"`
	CreatedAt       string         `json:"created_at"`
	Customer        *orderCustomer `json:"customer"`
	ShippingAddress *orderAddress  `json:"shipping_address"`
	LineItems       []lineItem     `json:"line_items"`
}

type orderCustomer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

type orderAddress struct {
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

type lineItem struct {
	Title        string `json:"title"`
	Quantity     int    `json:"quantity"`
	Price        string `json:"price"`
	SKU          string `json:"sku"`
	VariantTitle string `json:"variant_title"`
	Vendor       string `json:"vendor"`
	ProductID    int64  `json:"product_id"`
	VariantID    int64  `json:"variant_id"`
	Grams        int64  `json:"grams"`
}

// ProcessWebhook normalizes an orders/paid notification. Two independent
// gates apply: the payload must match the paid-order shape, and the order
// must carry a deliverable shipping address (address1 and city present) —
// downstream tracking has no use for orders without one.
func (g *Gateway) ProcessWebhook(ctx context.Context, rawBody []byte, headers map[string]string) (ev gateway.WebhookEvent) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error().Interface("panic", r).Msg("panic while processing webhook")
			ev = gateway.Failed(g.cfg, "error", "error processing storefront webhook: %v", r)
		}
	}()

	var raw map[string]any
	if err := json.Unmarshal(rawBody, &raw); err != nil {
		g.logger.Error().Err(err).Msg("failed to parse webhook payload")
		return gateway.Failed(g.cfg, "error", "error processing storefront webhook: %s", err.Error())
	}

	if !isPaidOrder(raw) {
		g.logger.Debug().Msg("webhook is not an orders/paid notification, ignoring")
		return gateway.Failed(g.cfg, "orders/ignored", "webhook is not an orders/paid notification")
	}

	var order paidOrder
	if err := json.Unmarshal(rawBody, &order); err != nil {
		g.logger.Error().Err(err).Msg("failed to decode paid order")
		return gateway.Failed(g.cfg, "error", "error processing storefront webhook: %s", err.Error())
	}

	if order.ShippingAddress == nil || order.ShippingAddress.Address1 == "" || order.ShippingAddress.City == "" {
		g.logger.Warn().Int64("order_id", order.ID).Msg("paid order has no deliverable shipping address, ignoring")
		return gateway.Failed(g.cfg, "orders/no_address", "order has no valid shipping address")
	}

	orderID := strconv.FormatInt(order.ID, 10)
	totalCents := priceToCents(order.TotalPrice)

	ev = gateway.Result(g.cfg, "orders/paid")
	ev.PaymentID = orderID
	ev.OrderID = orderID
	// This provider only notifies on already-paid orders.
	ev.NewStatus = string(gateway.StatusPaid)
	ev.AmountCents = totalCents
	ev.Currency = order.Currency
	ev.Customer = normalizeCustomer(&order)
	ev.Shipping = normalizeShipping(order.ShippingAddress)
	ev.Items = normalizeItems(order.LineItems)
	ev.OriginalPayload = raw

	g.logger.Debug().
		Str("order_id", orderID).
		Int64("amount_cents", totalCents).
		Int("items", len(ev.Items)).
		Msg("paid order normalized")
	return ev
}

// isPaidOrder is the shape gate: numeric id, string email and total_price,
// financial_status paid, and a line_items array.
func isPaidOrder(payload map[string]any) bool {
	if _, ok := payload["id"].(float64); !ok {
		return false
	}
	if _, ok := payload["email"].(string); !ok {
		return false
	}
	if _, ok := payload["total_price"].(string); !ok {
		return false
	}
	if payload["financial_status"] != "paid" {
		return false
	}
	_, ok := payload["line_items"].([]any)
	return ok
}

func normalizeCustomer(order *paidOrder) *gateway.Customer {
	name := "Storefront customer"
	phone := ""
	if order.Customer != nil {
		if full := strings.TrimSpace(order.Customer.FirstName + " " + order.Customer.LastName); full != "" {
			name = full
		}
		phone = order.Customer.Phone
	}
	if phone == "" && order.ShippingAddress != nil {
		phone = order.ShippingAddress.Phone
	}
	return &gateway.Customer{
		Name:    name,
		Email:   order.Email,
		Phone:   phone,
		Address: normalizeShipping(order.ShippingAddress),
	}
}

func normalizeShipping(addr *orderAddress) *gateway.Address {
	if addr == nil {
		return nil
	}
	return &gateway.Address{
		Street:     addr.Address1,
		Complement: addr.Address2,
		City:       addr.City,
		State:      addr.Province,
		Zip:        addr.Zip,
		Country:    addr.Country,
		Phone:      addr.Phone,
	}
}

func normalizeItems(items []lineItem) []gateway.LineItem {
	out := make([]gateway.LineItem, 0, len(items))
	for _, item := range items {
		out = append(out, gateway.LineItem{
			Name:        item.Title,
			Quantity:    item.Quantity,
			PriceCents:  priceToCents(item.Price),
			SKU:         item.SKU,
			Variant:     item.VariantTitle,
			Vendor:      item.Vendor,
			WeightGrams: item.Grams,
			ProductID:   item.ProductID,
			VariantID:   item.VariantID,
		})
	}
	return out
}

// priceToCents converts the platform's decimal-string prices to integer
// minor units.
func priceToCents(price string) int64 {
	f, err := strconv.ParseFloat(price, 64)
	if err != nil {
		return 0
	}
	return int64(math.Round(f * 100))
}
