package gateway

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	domainErrors "github.com/orderpulse/gateways/internal/domain/errors"
)

// Constructor builds a configured adapter instance. Implementations must
// reject configs missing ClientID or GatewayID.
type Constructor func(cfg Config) (Gateway, error)

// Info describes a registered gateway type.
type Info struct {
	Name        string
	Description string
	New         Constructor
	Schema      *ConfigSchema
}

// UnregisteredTypeError is returned by Registry.Create for unknown types.
type UnregisteredTypeError struct {
	Type      string
	Available []string
}

func (e *UnregisteredTypeError) Error() string {
	return fmt.Sprintf("gateway type %q not registered. Available types: %s",
		e.Type, strings.Join(e.Available, ", "))
}

func (e *UnregisteredTypeError) Unwrap() error {
	return domainErrors.ErrGatewayNotRegistered
}

// Registry maps case-insensitive gateway type keys to constructors and
// config schemas. It is populated once during startup and is effectively
// read-only afterward; late registration is allowed but treated as an
// administrative operation, never a per-request one.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Info
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Info)}
}

// Register stores a gateway type. Re-registering a type replaces it.
func (r *Registry) Register(gatewayType string, info Info) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[strings.ToLower(gatewayType)] = info
}

// Create looks up the type and constructs an adapter with the given config.
func (r *Registry) Create(gatewayType string, cfg Config) (Gateway, error) {
	r.mu.RLock()
	info, ok := r.entries[strings.ToLower(gatewayType)]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnregisteredTypeError{Type: gatewayType, Available: r.AvailableTypes()}
	}
	return info.New(cfg)
}

// IsRegistered reports whether a type is known.
func (r *Registry) IsRegistered(gatewayType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[strings.ToLower(gatewayType)]
	return ok
}

// Info returns the registration entry for a type.
func (r *Registry) Info(gatewayType string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.entries[strings.ToLower(gatewayType)]
	return info, ok
}

// AvailableTypes lists registered type keys in sorted order.
func (r *Registry) AvailableTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	types := make([]string, 0, len(r.entries))
	for t := range r.entries {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
