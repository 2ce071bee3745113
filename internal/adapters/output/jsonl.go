// internal/adapters/output/jsonl.go
package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
	"webfigscan/internal/platform/logx"
)

// JSONLWriter implementa ports.Reporter escribiendo un objeto JSON por
// línea: un registro "scan", uno "result" por cada outcome (sea cual sea)
// y un "summary" final. Cada registro se vuelca al escribirse, así un
// escaneo interrumpido deja un fichero válido hasta la última línea.
type JSONLWriter struct {
	w      *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
	path   string
	scanID string
	lines  int
	err    error
	logger logx.Logger
}

// NewJSONLWriter escribe sobre w. Close no cierra w.
func NewJSONLWriter(w io.Writer, logger logx.Logger) *JSONLWriter {
	if logger == nil {
		logger = logx.Nop()
	}
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)
	return &JSONLWriter{
		w:      bw,
		enc:    enc,
		logger: logger.With("component", "jsonl-writer"),
	}
}

// CreateJSONLFile crea (o trunca) path y los directorios que falten.
func CreateJSONLFile(path string, logger logx.Logger) (*JSONLWriter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}
	jw := NewJSONLWriter(f, logger)
	jw.closer = f
	jw.path = path
	return jw, nil
}

// write codifica un registro y vuelca. El primer error se conserva y
// silencia los siguientes; Close lo devuelve.
func (j *JSONLWriter) write(record any) {
	if j.err != nil {
		return
	}
	if err := j.enc.Encode(record); err != nil {
		j.fail(fmt.Errorf("failed to encode record: %w", err))
		return
	}
	if err := j.w.Flush(); err != nil {
		j.fail(fmt.Errorf("failed to write record: %w", err))
		return
	}
	j.lines++
}

func (j *JSONLWriter) fail(err error) {
	j.err = err
	j.logger.Err(err, "file", j.path, "lines", j.lines)
}

// Start escribe el registro de apertura
func (j *JSONLWriter) Start(info ports.ScanInfo) {
	j.scanID = info.ScanID
	j.write(NewScanRecord(info))
}

// Warn escribe una advertencia
func (j *JSONLWriter) Warn(msg string) {
	j.write(WarningRecord{Type: RecordWarning, ScanID: j.scanID, Message: msg, Time: time.Now().UTC()})
}

// Result escribe un outcome
func (j *JSONLWriter) Result(r domain.Result) {
	j.write(NewResultRecord(j.scanID, r))
}

// Finish escribe el resumen
func (j *JSONLWriter) Finish(summary *domain.ScanSummary) {
	if summary == nil {
		return
	}
	j.write(NewSummaryRecord(j.scanID, summary))
	j.logger.Debug("results written", "file", j.path, "lines", j.lines)
}

// Lines devuelve cuántos registros se escribieron
func (j *JSONLWriter) Lines() int {
	return j.lines
}

// Err devuelve el primer error de escritura
func (j *JSONLWriter) Err() error {
	return j.err
}

// Close vuelca lo pendiente y cierra el fichero si lo abrió CreateJSONLFile.
func (j *JSONLWriter) Close() error {
	if err := j.w.Flush(); err != nil && j.err == nil {
		j.err = fmt.Errorf("failed to flush output: %w", err)
	}
	if j.closer != nil {
		if err := j.closer.Close(); err != nil && j.err == nil {
			j.err = fmt.Errorf("failed to close output file: %w", err)
		}
		j.closer = nil
	}
	return j.err
}
