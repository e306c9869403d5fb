package gateway

import (
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"
)

// ValidationResult is the outcome of validating a gateway configuration.
type ValidationResult struct {
	IsValid  bool     `json:"isValid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (r *ValidationResult) addError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.IsValid = false
}

func (r *ValidationResult) addWarning(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// FieldValidator checks a single config value. A nil return means valid.
type FieldValidator func(value any) error

// ConfigSchema declares the required and optional fields of a gateway type,
// plus field-level validators. Schemas are built eagerly and treated as
// immutable after construction.
type ConfigSchema struct {
	Required   []string
	Optional   []string
	Validators map[string]FieldValidator
}

// ConfigValidator validates raw onboarding configs against per-type schemas.
// It is pure and safe for concurrent use: the schema map is never mutated
// after construction.
type ConfigValidator struct {
	schemas map[string]*ConfigSchema
}

// NewConfigValidator builds a validator from the given schemas, keyed by
// case-insensitive gateway type.
func NewConfigValidator(schemas map[string]*ConfigSchema) *ConfigValidator {
	v := &ConfigValidator{schemas: make(map[string]*ConfigSchema, len(schemas))}
	for t, s := range schemas {
		v.schemas[strings.ToLower(t)] = s
	}
	return v
}

// Validate checks a raw config map against the schema for the given type.
// Without a schema it falls back to the minimal clientId/gatewayId check and
// emits a warning so the absence is never silent. Unknown fields warn, they
// never fail the validation.
func (v *ConfigValidator) Validate(gatewayType string, config map[string]any) ValidationResult {
	result := ValidationResult{IsValid: true, Errors: []string{}, Warnings: []string{}}

	if config == nil {
		result.addError("configuration must be an object")
		return result
	}

	schema, ok := v.schemas[strings.ToLower(gatewayType)]
	if !ok {
		result.addWarning("no validation schema found for gateway type %q", gatewayType)
		for _, field := range []string{"clientId", "gatewayId"} {
			if isMissing(config, field) {
				result.addError("required field %q not found", field)
			}
		}
		return result
	}

	for _, field := range schema.Required {
		if isMissing(config, field) {
			result.addError("required field %q not found", field)
		}
	}

	// Field validators run only on fields that are present; missing required
	// fields were already reported above.
	fields := make([]string, 0, len(schema.Validators))
	for field := range schema.Validators {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		value, ok := config[field]
		if !ok {
			continue
		}
		if err := schema.Validators[field](value); err != nil {
			result.addError("%s", err.Error())
		}
	}

	known := make(map[string]struct{}, len(schema.Required)+len(schema.Optional))
	for _, f := range schema.Required {
		known[f] = struct{}{}
	}
	for _, f := range schema.Optional {
		known[f] = struct{}{}
	}
	unknown := make([]string, 0)
	for field := range config {
		if _, ok := known[field]; !ok {
			unknown = append(unknown, field)
		}
	}
	sort.Strings(unknown)
	for _, field := range unknown {
		result.addWarning("unknown field %q found in configuration", field)
	}

	return result
}

// Schema returns the schema registered for a type.
func (v *ConfigValidator) Schema(gatewayType string) (*ConfigSchema, bool) {
	s, ok := v.schemas[strings.ToLower(gatewayType)]
	return s, ok
}

// HasSchema reports whether a type has a dedicated schema.
func (v *ConfigValidator) HasSchema(gatewayType string) bool {
	_, ok := v.schemas[strings.ToLower(gatewayType)]
	return ok
}

// SupportedTypes lists types with a schema, sorted.
func (v *ConfigValidator) SupportedTypes() []string {
	types := make([]string, 0, len(v.schemas))
	for t := range v.schemas {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

func isMissing(config map[string]any, field string) bool {
	value, ok := config[field]
	return !ok || value == nil
}

// --- Common field validators ---

// StringMinLen requires a string value of at least n characters.
func StringMinLen(field string, n int) FieldValidator {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s must be a string", field)
		}
		if len(s) < n {
			return fmt.Errorf("%s must have at least %d characters", field, n)
		}
		return nil
	}
}

// StringPrefix requires a string value starting with the given prefix.
func StringPrefix(field, prefix string) FieldValidator {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s must be a string", field)
		}
		if !strings.HasPrefix(s, prefix) {
			return fmt.Errorf("%s must start with %s", field, prefix)
		}
		return nil
	}
}

// ValidURL requires a parseable absolute URL.
func ValidURL(field string) FieldValidator {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s must be a string", field)
		}
		u, err := url.Parse(s)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be a valid URL", field)
		}
		return nil
	}
}

var dateFormatRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// DateFormat requires a YYYY-MM-DD string.
func DateFormat(field string) FieldValidator {
	return func(value any) error {
		s, ok := value.(string)
		if !ok {
			return fmt.Errorf("%s must be a string", field)
		}
		if !dateFormatRe.MatchString(s) {
			return fmt.Errorf("%s must be in YYYY-MM-DD format", field)
		}
		return nil
	}
}

// BoolValue requires a boolean.
func BoolValue(field string) FieldValidator {
	return func(value any) error {
		if _, ok := value.(bool); !ok {
			return fmt.Errorf("%s must be a boolean", field)
		}
		return nil
	}
}
