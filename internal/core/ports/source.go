// internal/core/ports/source.go
package ports

import (
	"context"
	"net/netip"
	"time"

	"webfigscan/internal/core/domain"
)

// PrefixProvider es una fuente de datos de enrutamiento capaz de listar los
// prefijos IPv4 anunciados por un ASN. Cada proveedor usa su propio formato
// de respuesta y lo normaliza a netip.Prefix.
type PrefixProvider interface {
	// Name retorna el nombre único del proveedor (ej: "ripestat", "bgpview")
	Name() string

	// Prefixes consulta el proveedor una sola vez. Cero prefijos con
	// respuesta bien formada es un éxito, no un error.
	Prefixes(ctx context.Context, asn uint32) ([]netip.Prefix, error)
}

// ProviderConfig es la configuración específica de un proveedor.
type ProviderConfig struct {
	// BaseURL sobrescribe el endpoint por defecto (tests, mirrors)
	BaseURL string

	// Timeout de la petición HTTP
	Timeout time.Duration

	// ProxyURL opcional para la petición saliente
	ProxyURL string

	// UserAgent enviado al proveedor
	UserAgent string
}

// ProviderMetadata describe un proveedor registrado.
type ProviderMetadata struct {
	Name        string
	Description string
	Homepage    string
}

// Prober conecta con un ProbeTarget y lo clasifica. Nunca devuelve error:
// los fallos por objetivo son datos (Outcome), no fallos del proceso.
type Prober interface {
	Probe(ctx context.Context, target domain.ProbeTarget) domain.Result
}

// ProberFunc adapta una función a Prober.
type ProberFunc func(ctx context.Context, target domain.ProbeTarget) domain.Result

// Probe implementa Prober.
func (f ProberFunc) Probe(ctx context.Context, target domain.ProbeTarget) domain.Result {
	return f(ctx, target)
}
