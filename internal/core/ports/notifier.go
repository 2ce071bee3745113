// internal/core/ports/notifier.go
package ports

import (
	"time"

	"webfigscan/internal/core/domain"
)

// Reporter es el sumidero de resultados. Lo invoca un único consumidor, así
// que las implementaciones no necesitan ser seguras para uso concurrente
// salvo que se compartan fuera de ScanService.
type Reporter interface {
	// Start anuncia el escaneo antes del primer probe
	Start(info ScanInfo)

	// Warn muestra una advertencia no fatal (escaneo enorme, ASN vacío)
	Warn(msg string)

	// Result recibe cada ProbeTarget ya clasificado
	Result(r domain.Result)

	// Finish recibe el resumen final
	Finish(summary *domain.ScanSummary)

	// Close libera recursos (ficheros, terminal)
	Close() error
}

// ScanInfo describe el escaneo que va a empezar.
type ScanInfo struct {
	ScanID      string
	Target      string
	Prefixes    int
	Addresses   uint64
	PortsPerIP  int
	Total       uint64
	Concurrency int
	Timeout     time.Duration
	StartedAt   time.Time
}
