// internal/core/usecases/reporter.go
package usecases

import (
	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
	"webfigscan/internal/platform/errors"
)

// MultiReporter reparte cada evento a todos sus reporters, en orden.
type MultiReporter struct {
	reporters []ports.Reporter
}

// NewMultiReporter ignora los nil.
func NewMultiReporter(reporters ...ports.Reporter) *MultiReporter {
	m := &MultiReporter{}
	for _, r := range reporters {
		if r != nil {
			m.reporters = append(m.reporters, r)
		}
	}
	return m
}

// Add añade un reporter al final.
func (m *MultiReporter) Add(r ports.Reporter) {
	if r != nil {
		m.reporters = append(m.reporters, r)
	}
}

// Len devuelve cuántos reporters hay.
func (m *MultiReporter) Len() int { return len(m.reporters) }

func (m *MultiReporter) Start(info ports.ScanInfo) {
	for _, r := range m.reporters {
		r.Start(info)
	}
}

func (m *MultiReporter) Warn(msg string) {
	for _, r := range m.reporters {
		r.Warn(msg)
	}
}

func (m *MultiReporter) Result(res domain.Result) {
	for _, r := range m.reporters {
		r.Result(res)
	}
}

func (m *MultiReporter) Finish(summary *domain.ScanSummary) {
	for _, r := range m.reporters {
		r.Finish(summary)
	}
}

// Close cierra todos y une los errores.
func (m *MultiReporter) Close() error {
	var errs []error
	for _, r := range m.reporters {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
