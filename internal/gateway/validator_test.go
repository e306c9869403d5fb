package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchemas() map[string]*ConfigSchema {
	return map[string]*ConfigSchema{
		"billing": {
			Required: []string{"apiKey", "apiUrl", "webhookSecret", "clientId", "gatewayId"},
			Optional: []string{"sandbox"},
			Validators: map[string]FieldValidator{
				"apiKey":        StringMinLen("apiKey", 10),
				"apiUrl":        ValidURL("apiUrl"),
				"webhookSecret": StringMinLen("webhookSecret", 8),
			},
		},
		"cards": {
			Required: []string{"secretKey", "clientId", "gatewayId"},
			Optional: []string{"apiVersion"},
			Validators: map[string]FieldValidator{
				"secretKey":  StringPrefix("secretKey", "sk_"),
				"apiVersion": DateFormat("apiVersion"),
			},
		},
	}
}

func validBillingConfig() map[string]any {
	return map[string]any{
		"apiKey":        "key-0123456789",
		"apiUrl":        "https://api.example.com/v3",
		"webhookSecret": "secret-value",
		"clientId":      "c1",
		"gatewayId":     "g1",
	}
}

func TestConfigValidator_Valid(t *testing.T) {
	v := NewConfigValidator(testSchemas())

	result := v.Validate("billing", validBillingConfig())
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
}

func TestConfigValidator_NilConfig(t *testing.T) {
	v := NewConfigValidator(testSchemas())

	result := v.Validate("billing", nil)
	assert.False(t, result.IsValid)
	require.Len(t, result.Errors, 1)
	assert.Contains(t, result.Errors[0], "must be an object")
}

func TestConfigValidator_MissingRequiredFields(t *testing.T) {
	v := NewConfigValidator(testSchemas())

	result := v.Validate("billing", map[string]any{"clientId": "c1"})
	assert.False(t, result.IsValid)
	assert.Len(t, result.Errors, 4)
	for _, field := range []string{"apiKey", "apiUrl", "webhookSecret", "gatewayId"} {
		assert.Contains(t, result.Errors, `required field "`+field+`" not found`)
	}
}

func TestConfigValidator_NilValueCountsAsMissing(t *testing.T) {
	v := NewConfigValidator(testSchemas())

	cfg := validBillingConfig()
	cfg["apiKey"] = nil
	result := v.Validate("billing", cfg)
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, `required field "apiKey" not found`)
}

func TestConfigValidator_FieldValidators(t *testing.T) {
	v := NewConfigValidator(testSchemas())

	tests := []struct {
		name    string
		mutate  func(map[string]any)
		wantErr string
	}{
		{
			name:    "short api key",
			mutate:  func(m map[string]any) { m["apiKey"] = "short" },
			wantErr: "apiKey must have at least 10 characters",
		},
		{
			name:    "api key wrong type",
			mutate:  func(m map[string]any) { m["apiKey"] = 42 },
			wantErr: "apiKey must be a string",
		},
		{
			name:    "invalid url",
			mutate:  func(m map[string]any) { m["apiUrl"] = "not a url" },
			wantErr: "apiUrl must be a valid URL",
		},
		{
			name:    "short webhook secret",
			mutate:  func(m map[string]any) { m["webhookSecret"] = "short" },
			wantErr: "webhookSecret must have at least 8 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validBillingConfig()
			tt.mutate(cfg)
			result := v.Validate("billing", cfg)
			assert.False(t, result.IsValid)
			assert.Contains(t, result.Errors, tt.wantErr)
		})
	}
}

func TestConfigValidator_PrefixAndDateValidators(t *testing.T) {
	v := NewConfigValidator(testSchemas())

	result := v.Validate("cards", map[string]any{
		"secretKey":  "wrong_prefix",
		"apiVersion": "2024/01/01",
		"clientId":   "c1",
		"gatewayId":  "g1",
	})
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, "secretKey must start with sk_")
	assert.Contains(t, result.Errors, "apiVersion must be in YYYY-MM-DD format")

	result = v.Validate("cards", map[string]any{
		"secretKey":  "sk_live_abc",
		"apiVersion": "2024-01-01",
		"clientId":   "c1",
		"gatewayId":  "g1",
	})
	assert.True(t, result.IsValid)
}

func TestConfigValidator_UnknownFieldsWarn(t *testing.T) {
	v := NewConfigValidator(testSchemas())

	cfg := validBillingConfig()
	cfg["zzz"] = true
	cfg["aaa"] = "x"
	result := v.Validate("billing", cfg)

	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 2)
	assert.Equal(t, `unknown field "aaa" found in configuration`, result.Warnings[0])
	assert.Equal(t, `unknown field "zzz" found in configuration`, result.Warnings[1])
}

func TestConfigValidator_NoSchemaFallback(t *testing.T) {
	v := NewConfigValidator(testSchemas())

	result := v.Validate("mystery", map[string]any{"clientId": "c1", "gatewayId": "g1"})
	assert.True(t, result.IsValid)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "no validation schema found")

	result = v.Validate("mystery", map[string]any{"clientId": "c1"})
	assert.False(t, result.IsValid)
	assert.Contains(t, result.Errors, `required field "gatewayId" not found`)
}

func TestConfigValidator_CaseInsensitiveType(t *testing.T) {
	v := NewConfigValidator(testSchemas())

	result := v.Validate("BILLING", validBillingConfig())
	assert.True(t, result.IsValid)
	assert.Empty(t, result.Warnings)
	assert.True(t, v.HasSchema("Billing"))
}

func TestConfigValidator_SupportedTypes(t *testing.T) {
	v := NewConfigValidator(testSchemas())
	assert.Equal(t, []string{"billing", "cards"}, v.SupportedTypes())
}

func TestBoolValue(t *testing.T) {
	fv := BoolValue("sandbox")
	assert.NoError(t, fv(true))
	assert.NoError(t, fv(false))
	assert.Error(t, fv("true"))
	assert.Error(t, fv(1))
}
