// internal/platform/ui/raw.go
package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
)

// RawReporter escribe una línea logfmt por evento, sin colores. Pensado
// para stdout redirigido: cada línea se puede filtrar con grep.
type RawReporter struct {
	opts Options
	out  io.Writer
}

// NewRawReporter crea un RawReporter
func NewRawReporter(opts Options) *RawReporter {
	return &RawReporter{opts: opts, out: opts.Out}
}

// log escribe: timestamp LEVEL message key=value key2=value2
func (r *RawReporter) log(level, message string, fields map[string]interface{}) {
	parts := []string{
		time.Now().UTC().Format(time.RFC3339),
		fmt.Sprintf("%-5s", level),
		message,
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, formatValue(fields[k])))
	}

	fmt.Fprintln(r.out, strings.Join(parts, " "))
}

// formatValue entrecomilla strings con espacios
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " \t\"=") {
			return fmt.Sprintf("%q", val)
		}
		return val
	case time.Duration:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}

// Start anuncia el escaneo
func (r *RawReporter) Start(info ports.ScanInfo) {
	r.log("INFO", "scan_started", map[string]interface{}{
		"scan_id":     info.ScanID,
		"target":      info.Target,
		"prefixes":    info.Prefixes,
		"addresses":   info.Addresses,
		"ports":       info.PortsPerIP,
		"total":       info.Total,
		"concurrency": info.Concurrency,
		"timeout":     info.Timeout,
	})
}

// Warn escribe una advertencia
func (r *RawReporter) Warn(msg string) {
	r.log("WARN", msg, nil)
}

// Result escribe un resultado si corresponde
func (r *RawReporter) Result(res domain.Result) {
	if !shouldPrint(r.opts, res.IsMatch()) {
		return
	}
	fields := map[string]interface{}{
		"target":  res.Target.String(),
		"outcome": res.Outcome.Kind.String(),
	}
	if res.Outcome.Version != "" {
		fields["version"] = res.Outcome.Version
	}
	if res.Outcome.Detail != "" {
		fields["detail"] = res.Outcome.Detail
	}
	if res.Status > 0 {
		fields["status"] = res.Status
	}
	if res.Server != "" {
		fields["server"] = res.Server
	}
	if res.Title != "" {
		fields["title"] = res.Title
	}
	r.log("INFO", "result", fields)
}

// Finish escribe el resumen
func (r *RawReporter) Finish(summary *domain.ScanSummary) {
	if summary == nil {
		return
	}
	fields := map[string]interface{}{
		"total":     summary.Total,
		"completed": summary.Completed,
		"peak":      summary.PeakActive,
		"duration":  summary.Duration().Round(time.Millisecond),
	}
	for _, k := range domain.OutcomeKinds {
		fields[k.String()] = summary.ByOutcome[k]
	}
	r.log("INFO", "scan_completed", fields)
}

// Close no retiene recursos
func (r *RawReporter) Close() error {
	return nil
}
