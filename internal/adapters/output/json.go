// internal/adapters/output/json.go
package output

import (
	"time"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
)

// Tipos de registro en el fichero JSON Lines
const (
	RecordScan    = "scan"
	RecordWarning = "warning"
	RecordResult  = "result"
	RecordSummary = "summary"
)

// ScanRecord abre el fichero: describe el escaneo.
type ScanRecord struct {
	Type        string    `json:"type"`
	ScanID      string    `json:"scan_id"`
	Target      string    `json:"target"`
	Prefixes    int       `json:"prefixes,omitempty"`
	Addresses   uint64    `json:"addresses"`
	PortsPerIP  int       `json:"ports_per_ip"`
	Total       uint64    `json:"total"`
	Concurrency int       `json:"concurrency"`
	TimeoutMS   int64     `json:"timeout_ms"`
	StartedAt   time.Time `json:"started_at"`
}

// WarningRecord es una advertencia no fatal.
type WarningRecord struct {
	Type    string    `json:"type"`
	ScanID  string    `json:"scan_id"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// ResultRecord es un ProbeTarget clasificado.
type ResultRecord struct {
	Type       string             `json:"type"`
	ScanID     string             `json:"scan_id"`
	IP         string             `json:"ip"`
	Port       uint16             `json:"port"`
	Outcome    domain.OutcomeKind `json:"outcome"`
	Version    string             `json:"version,omitempty"`
	Detail     string             `json:"detail,omitempty"`
	Scheme     string             `json:"scheme,omitempty"`
	Status     int                `json:"status,omitempty"`
	Server     string             `json:"server,omitempty"`
	Title      string             `json:"title,omitempty"`
	DurationMS int64              `json:"duration_ms"`
	Time       time.Time          `json:"time"`
}

// SummaryRecord cierra el fichero.
type SummaryRecord struct {
	Type       string            `json:"type"`
	ScanID     string            `json:"scan_id"`
	Target     string            `json:"target"`
	Total      uint64            `json:"total"`
	Completed  uint64            `json:"completed"`
	ByOutcome  map[string]uint64 `json:"by_outcome"`
	PeakActive int64             `json:"peak_active"`
	DurationMS int64             `json:"duration_ms"`
	EndedAt    time.Time         `json:"ended_at"`
}

// NewScanRecord construye el registro de apertura.
func NewScanRecord(info ports.ScanInfo) ScanRecord {
	return ScanRecord{
		Type:        RecordScan,
		ScanID:      info.ScanID,
		Target:      info.Target,
		Prefixes:    info.Prefixes,
		Addresses:   info.Addresses,
		PortsPerIP:  info.PortsPerIP,
		Total:       info.Total,
		Concurrency: info.Concurrency,
		TimeoutMS:   info.Timeout.Milliseconds(),
		StartedAt:   info.StartedAt,
	}
}

// NewResultRecord aplana un domain.Result.
func NewResultRecord(scanID string, r domain.Result) ResultRecord {
	return ResultRecord{
		Type:       RecordResult,
		ScanID:     scanID,
		IP:         r.Target.Addr.String(),
		Port:       r.Target.Port,
		Outcome:    r.Outcome.Kind,
		Version:    r.Outcome.Version,
		Detail:     r.Outcome.Detail,
		Scheme:     r.Scheme,
		Status:     r.Status,
		Server:     r.Server,
		Title:      r.Title,
		DurationMS: r.Duration.Milliseconds(),
		Time:       time.Now().UTC(),
	}
}

// NewSummaryRecord construye el registro final.
func NewSummaryRecord(scanID string, s *domain.ScanSummary) SummaryRecord {
	byOutcome := make(map[string]uint64, len(domain.OutcomeKinds))
	for _, k := range domain.OutcomeKinds {
		byOutcome[k.String()] = s.ByOutcome[k]
	}
	end := s.EndTime
	if end.IsZero() {
		end = time.Now()
	}
	return SummaryRecord{
		Type:       RecordSummary,
		ScanID:     scanID,
		Target:     s.Target,
		Total:      s.Total,
		Completed:  s.Completed,
		ByOutcome:  byOutcome,
		PeakActive: s.PeakActive,
		DurationMS: s.Duration().Milliseconds(),
		EndedAt:    end.UTC(),
	}
}
