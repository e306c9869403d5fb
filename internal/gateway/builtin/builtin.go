// Package builtin wires the built-in provider adapters into a registry and
// a config validator. Both are constructed eagerly at process startup and
// passed by reference into whatever layer dispatches webhooks.
package builtin

import (
	"github.com/rs/zerolog"

	"github.com/orderpulse/gateways/internal/gateway"
	"github.com/orderpulse/gateways/internal/gateway/asaas"
	"github.com/orderpulse/gateways/internal/gateway/generic"
	"github.com/orderpulse/gateways/internal/gateway/shopify"
)

func asaasSchema() *gateway.ConfigSchema {
	return &gateway.ConfigSchema{
		Required: []string{"apiKey", "apiUrl", "webhookSecret", "clientId", "gatewayId"},
		Optional: []string{"sandbox"},
		Validators: map[string]gateway.FieldValidator{
			"apiKey":        gateway.StringMinLen("apiKey", 10),
			"apiUrl":        gateway.ValidURL("apiUrl"),
			"webhookSecret": gateway.StringMinLen("webhookSecret", 8),
		},
	}
}

func shopifySchema() *gateway.ConfigSchema {
	return &gateway.ConfigSchema{
		Required: []string{"webhookSecret", "clientId", "gatewayId"},
		Optional: []string{"apiKey", "apiUrl", "shopDomain"},
	}
}

func mercadoPagoSchema() *gateway.ConfigSchema {
	return &gateway.ConfigSchema{
		Required: []string{"accessToken", "publicKey", "webhookSecret", "clientId", "gatewayId"},
		Optional: []string{"sandboxMode"},
		Validators: map[string]gateway.FieldValidator{
			"accessToken": gateway.StringPrefix("accessToken", "APP_USR-"),
			"publicKey":   gateway.StringPrefix("publicKey", "APP_USR-"),
			"sandboxMode": gateway.BoolValue("sandboxMode"),
		},
	}
}

func stripeSchema() *gateway.ConfigSchema {
	return &gateway.ConfigSchema{
		Required: []string{"secretKey", "publishableKey", "webhookSecret", "clientId", "gatewayId"},
		Optional: []string{"apiVersion"},
		Validators: map[string]gateway.FieldValidator{
			"secretKey":      gateway.StringPrefix("secretKey", "sk_"),
			"publishableKey": gateway.StringPrefix("publishableKey", "pk_"),
			"apiVersion":     gateway.DateFormat("apiVersion"),
		},
	}
}

// Registry builds a registry with every built-in provider registered.
func Registry(logger zerolog.Logger) *gateway.Registry {
	r := gateway.NewRegistry()

	r.Register(asaas.Type, gateway.Info{
		Name:        "Asaas",
		Description: "Brazilian billing provider (PIX, boleto, card)",
		Schema:      asaasSchema(),
		New: func(cfg gateway.Config) (gateway.Gateway, error) {
			return asaas.New(cfg, logger)
		},
	})

	r.Register(shopify.Type, gateway.Info{
		Name:        "Shopify",
		Description: "Storefront platform order webhooks",
		Schema:      shopifySchema(),
		New: func(cfg gateway.Config) (gateway.Gateway, error) {
			return shopify.New(cfg, logger)
		},
	})

	r.Register("mercadopago", gateway.Info{
		Name:        "Mercado Pago",
		Description: "Mercado Pago notifications (generic adapter)",
		Schema:      mercadoPagoSchema(),
		New: func(cfg gateway.Config) (gateway.Gateway, error) {
			return generic.New("mercadopago", cfg, logger)
		},
	})

	r.Register("stripe", gateway.Info{
		Name:        "Stripe",
		Description: "Stripe events (generic adapter)",
		Schema:      stripeSchema(),
		New: func(cfg gateway.Config) (gateway.Gateway, error) {
			return generic.New("stripe", cfg, logger)
		},
	})

	return r
}

// Validator builds the config validator covering every built-in provider.
func Validator() *gateway.ConfigValidator {
	return gateway.NewConfigValidator(map[string]*gateway.ConfigSchema{
		"asaas":       asaasSchema(),
		"shopify":     shopifySchema(),
		"mercadopago": mercadoPagoSchema(),
		"stripe":      stripeSchema(),
	})
}
