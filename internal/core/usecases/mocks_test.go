// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"net/netip"
	"sync"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
)

// recordingReporter guarda todo lo que recibe
type recordingReporter struct {
	started  []ports.ScanInfo
	warnings []string
	results  []domain.Result
	summary  *domain.ScanSummary
	closed   int
	closeErr error
}

func (r *recordingReporter) Start(info ports.ScanInfo)          { r.started = append(r.started, info) }
func (r *recordingReporter) Warn(msg string)                    { r.warnings = append(r.warnings, msg) }
func (r *recordingReporter) Result(res domain.Result)           { r.results = append(r.results, res) }
func (r *recordingReporter) Finish(summary *domain.ScanSummary) { r.summary = summary }
func (r *recordingReporter) Close() error {
	r.closed++
	return r.closeErr
}

// mockProvider es un ports.PrefixProvider con respuesta fija
type mockProvider struct {
	name     string
	prefixes []netip.Prefix
	err      error

	mu    sync.Mutex
	calls int
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) Prefixes(ctx context.Context, asn uint32) ([]netip.Prefix, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.prefixes, m.err
}

func (m *mockProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// countingProber clasifica por puerto y cuenta las llamadas
type countingProber struct {
	mu      sync.Mutex
	probed  []domain.ProbeTarget
	outcome func(domain.ProbeTarget) domain.Outcome
}

func (p *countingProber) Probe(ctx context.Context, t domain.ProbeTarget) domain.Result {
	p.mu.Lock()
	p.probed = append(p.probed, t)
	p.mu.Unlock()

	o := domain.Closed("connection refused")
	if p.outcome != nil {
		o = p.outcome(t)
	}
	return domain.Result{Target: t, Outcome: o}
}

func (p *countingProber) Probed() []domain.ProbeTarget {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]domain.ProbeTarget(nil), p.probed...)
}
