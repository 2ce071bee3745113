// internal/core/domain/scan_result.go
package domain

import (
	"time"
)

// Outcome es el resultado cerrado de un probe. Version solo tiene sentido
// con OutcomeServiceMatch y puede ir vacío si no se encontró.
type Outcome struct {
	Kind    OutcomeKind
	Version string
	Detail  string
}

// ServiceMatch construye un Outcome de servicio reconocido.
func ServiceMatch(version string) Outcome {
	return Outcome{Kind: OutcomeServiceMatch, Version: version}
}

// OpenNoMatch construye un Outcome de puerto abierto sin firma.
func OpenNoMatch() Outcome {
	return Outcome{Kind: OutcomeOpenNoMatch}
}

// Closed construye un Outcome de conexión rechazada.
func Closed(detail string) Outcome {
	return Outcome{Kind: OutcomeClosed, Detail: detail}
}

// TimedOut construye un Outcome de timeout.
func TimedOut() Outcome {
	return Outcome{Kind: OutcomeTimedOut}
}

// ConnectionError construye un Outcome de error de E/S.
func ConnectionError(detail string) Outcome {
	return Outcome{Kind: OutcomeConnectionError, Detail: detail}
}

// Result es lo que recibe el reporter por cada ProbeTarget.
type Result struct {
	Target  ProbeTarget
	Outcome Outcome

	// Evidencia HTTP, vacía si no hubo respuesta parseable
	Scheme string
	Status int
	Server string
	Title  string

	Duration time.Duration
}

// IsMatch indica si el resultado es el servicio buscado.
func (r Result) IsMatch() bool {
	return r.Outcome.Kind == OutcomeServiceMatch
}

// ScanSummary agrega los contadores de un escaneo completo.
type ScanSummary struct {
	Target     string
	Total      uint64 // ProbeTargets previstos
	Completed  uint64
	ByOutcome  map[OutcomeKind]uint64
	PeakActive int64
	StartTime  time.Time
	EndTime    time.Time
}

// NewScanSummary crea un resumen vacío.
func NewScanSummary(target string, total uint64) *ScanSummary {
	return &ScanSummary{
		Target:    target,
		Total:     total,
		ByOutcome: make(map[OutcomeKind]uint64, len(OutcomeKinds)),
		StartTime: time.Now(),
	}
}

// Record suma un resultado. No es seguro para uso concurrente: lo llama
// el único consumidor del canal de resultados.
func (s *ScanSummary) Record(r Result) {
	s.Completed++
	s.ByOutcome[r.Outcome.Kind]++
}

// Matches devuelve cuántos servicios se reconocieron.
func (s *ScanSummary) Matches() uint64 {
	return s.ByOutcome[OutcomeServiceMatch]
}

// Duration devuelve la duración del escaneo.
func (s *ScanSummary) Duration() time.Duration {
	if s.EndTime.IsZero() {
		return time.Since(s.StartTime)
	}
	return s.EndTime.Sub(s.StartTime)
}
