// internal/platform/registry/provider_registry.go
package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"webfigscan/internal/core/ports"
	"webfigscan/internal/platform/logx"
)

// ProviderRegistry gestiona el registro y construcción de proveedores de
// prefijos. Cada paquete proveedor se registra desde init().
type ProviderRegistry struct {
	mu        sync.RWMutex
	factories map[string]ProviderFactory
	metadata  map[string]ports.ProviderMetadata
	logger    logx.Logger
}

// ProviderFactory crea una instancia de PrefixProvider.
type ProviderFactory func(cfg ports.ProviderConfig, logger logx.Logger) (ports.PrefixProvider, error)

var (
	globalRegistry *ProviderRegistry
	once           sync.Once
)

// Global retorna la instancia global del registry.
func Global() *ProviderRegistry {
	once.Do(func() {
		globalRegistry = NewProviderRegistry(logx.NewSilent())
	})
	return globalRegistry
}

// NewProviderRegistry crea un registry vacío.
func NewProviderRegistry(logger logx.Logger) *ProviderRegistry {
	if logger == nil {
		logger = logx.Nop()
	}
	return &ProviderRegistry{
		factories: make(map[string]ProviderFactory),
		metadata:  make(map[string]ports.ProviderMetadata),
		logger:    logger.With("component", "provider-registry"),
	}
}

// Register registra una factory con su metadata.
func (r *ProviderRegistry) Register(name string, factory ProviderFactory, meta ports.ProviderMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return fmt.Errorf("provider name cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil for provider %s", name)
	}
	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("provider %s is already registered", name)
	}

	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("provider registered", "name", name)
	return nil
}

// MustRegister es Register para init(): un nombre duplicado es un bug.
func (r *ProviderRegistry) MustRegister(name string, factory ProviderFactory, meta ports.ProviderMetadata) {
	if err := r.Register(name, factory, meta); err != nil {
		panic(err)
	}
}

// Build construye los proveedores en el orden dado; ese orden es el orden
// de fallback. Un nombre desconocido o repetido es un error de
// configuración y aborta.
func (r *ProviderRegistry) Build(names []string, configs map[string]ports.ProviderConfig, logger logx.Logger) ([]ports.PrefixProvider, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	providers := make([]ports.PrefixProvider, 0, len(names))
	seen := make(map[string]struct{}, len(names))

	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("provider %s listed twice", name)
		}
		seen[name] = struct{}{}

		factory, ok := r.factories[name]
		if !ok {
			return nil, fmt.Errorf("provider %s not registered (available: %s)", name, strings.Join(r.listLocked(), ", "))
		}

		p, err := factory(configs[name], logger)
		if err != nil {
			return nil, fmt.Errorf("failed to build provider %s: %w", name, err)
		}
		providers = append(providers, p)
		r.logger.Debug("provider built", "name", name, "position", len(providers))
	}

	if len(providers) == 0 {
		return nil, fmt.Errorf("no providers could be built")
	}
	return providers, nil
}

// List retorna los nombres registrados, ordenados.
func (r *ProviderRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked()
}

func (r *ProviderRegistry) listLocked() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMetadata retorna el metadata de un proveedor.
func (r *ProviderRegistry) GetMetadata(name string) (ports.ProviderMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[name]
	return meta, exists
}

// IsRegistered verifica si un proveedor está registrado.
func (r *ProviderRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Clear elimina todos los registros (útil para testing).
func (r *ProviderRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]ProviderFactory)
	r.metadata = make(map[string]ports.ProviderMetadata)
}
