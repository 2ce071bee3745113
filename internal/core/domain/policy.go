// internal/core/domain/policy.go
package domain

import "time"

// ExpansionPolicy decide cuántas direcciones se emiten por bloque. Con
// ExpandAll se emiten todas; si no, las PerPrefixSample primeras en orden
// ascendente. Los rangos explícitos siempre se expanden completos.
type ExpansionPolicy struct {
	PerPrefixSample int
	ExpandAll       bool
}

// DefaultExpansionPolicy muestrea una dirección por bloque.
func DefaultExpansionPolicy() ExpansionPolicy {
	return ExpansionPolicy{PerPrefixSample: 1}
}

// Sample devuelve el tamaño de muestra efectivo (mínimo 1).
func (p ExpansionPolicy) Sample() int {
	if p.PerPrefixSample < 1 {
		return 1
	}
	return p.PerPrefixSample
}

// ScanConfig se fija al arrancar y es de solo lectura durante el escaneo.
type ScanConfig struct {
	Concurrency int
	Timeout     time.Duration

	// Rate limita probes por segundo; 0 = sin límite
	Rate float64
}

// Validate verifica los invariantes concurrency > 0 y timeout > 0.
func (c ScanConfig) Validate() error {
	if c.Concurrency <= 0 {
		return specErr("concurrency", "", "must be greater than zero")
	}
	if c.Timeout <= 0 {
		return specErr("timeout-ms", "", "must be greater than zero")
	}
	if c.Rate < 0 {
		return specErr("rate", "", "must not be negative")
	}
	return nil
}
