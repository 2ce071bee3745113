// internal/core/usecases/scan_service.go
package usecases

import (
	"context"
	"fmt"
	"net/netip"
	"time"

	"github.com/google/uuid"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
	"webfigscan/internal/platform/logx"
	"webfigscan/internal/scanner"
	"webfigscan/internal/targets"
)

// DefaultProgressInterval es la cadencia del log de progreso.
const DefaultProgressInterval = 5 * time.Second

// PrefixLoader lee una lista de prefijos de un fichero.
type PrefixLoader func(path string) ([]netip.Prefix, error)

// ScanService coordina un escaneo completo: resuelve el objetivo a
// prefijos o bloques, construye el stream de ProbeTargets, lo pasa al
// scheduler y reparte cada resultado a los reporters desde una única
// goroutine.
type ScanService struct {
	resolver    ports.PrefixProvider
	loadFile    PrefixLoader
	prober      ports.Prober
	reporter    ports.Reporter
	base        logx.Logger
	logger      logx.Logger
	scan        domain.ScanConfig
	policy      domain.ExpansionPolicy
	warnTargets uint64
	progress    time.Duration
	newID       func() string
}

// ScanServiceOptions configura el ScanService.
type ScanServiceOptions struct {
	// Resolver resuelve ASNs; solo se exige para objetivos ASN
	Resolver ports.PrefixProvider

	// LoadPrefixFile lee --asn-file; solo se exige para ese objetivo
	LoadPrefixFile PrefixLoader

	Prober   ports.Prober
	Reporter ports.Reporter
	Logger   logx.Logger

	Scan   domain.ScanConfig
	Policy domain.ExpansionPolicy

	// WarnTargets avisa si el total de probes lo supera (0 = nunca)
	WarnTargets uint64

	// ProgressInterval, 0 = DefaultProgressInterval
	ProgressInterval time.Duration
}

// NewScanService crea el servicio. La ScanConfig se valida aquí para que
// un error de configuración aborte antes de resolver nada.
func NewScanService(opts ScanServiceOptions) (*ScanService, error) {
	if opts.Prober == nil {
		return nil, fmt.Errorf("scan service: prober is required")
	}
	if err := opts.Scan.Validate(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Reporter == nil {
		opts.Reporter = NewMultiReporter()
	}
	if opts.ProgressInterval <= 0 {
		opts.ProgressInterval = DefaultProgressInterval
	}
	if opts.Policy.PerPrefixSample < 1 {
		opts.Policy.PerPrefixSample = domain.DefaultExpansionPolicy().PerPrefixSample
	}

	return &ScanService{
		resolver:    opts.Resolver,
		loadFile:    opts.LoadPrefixFile,
		prober:      opts.Prober,
		reporter:    opts.Reporter,
		base:        opts.Logger,
		logger:      opts.Logger.With("component", "scan_service"),
		scan:        opts.Scan,
		policy:      opts.Policy,
		warnTargets: opts.WarnTargets,
		progress:    opts.ProgressInterval,
		newID:       uuid.NewString,
	}, nil
}

// Run escanea spec en los puertos de portSpec. Un fallo de resolución
// (ASN sin proveedor que responda, fichero ilegible) aborta antes de
// lanzar ningún probe y no llega a los reporters. Los fallos por
// objetivo son outcomes, nunca errores. Si ctx se cancela, Run deja de
// admitir probes, espera a los que están en vuelo y devuelve el resumen
// parcial junto con ctx.Err().
func (s *ScanService) Run(ctx context.Context, spec domain.TargetSpec, portSpec domain.PortSpec) (*domain.ScanSummary, error) {
	stream, prefixes, err := s.buildStream(ctx, spec, portSpec)
	if err != nil {
		return nil, err
	}

	sched, err := scanner.NewScheduler(s.scan, s.prober, s.base)
	if err != nil {
		return nil, err
	}

	total := stream.Count()
	summary := domain.NewScanSummary(spec.String(), total)
	info := ports.ScanInfo{
		ScanID:      s.newID(),
		Target:      spec.String(),
		Prefixes:    prefixes,
		Addresses:   stream.AddressCount(),
		PortsPerIP:  stream.PortsPerAddress(),
		Total:       total,
		Concurrency: s.scan.Concurrency,
		Timeout:     s.scan.Timeout,
		StartedAt:   summary.StartTime,
	}

	s.logger.Info("scan starting",
		"scan_id", info.ScanID,
		"target", info.Target,
		"prefixes", prefixes,
		"addresses", info.Addresses,
		"ports_per_ip", info.PortsPerIP,
		"total", total,
		"concurrency", s.scan.Concurrency,
		"timeout", s.scan.Timeout,
	)
	s.reporter.Start(info)

	if spec.Kind == domain.TargetASN && prefixes == 0 {
		s.reporter.Warn(fmt.Sprintf("AS%d announces no IPv4 prefixes; nothing to scan", spec.ASN))
	}
	if stream.ExceedsThreshold(s.warnTargets) {
		msg := fmt.Sprintf("scan covers %d probes (threshold %d); consider --per-prefix or fewer ports", total, s.warnTargets)
		s.logger.Warn("large scan", "total", total, "threshold", s.warnTargets)
		s.reporter.Warn(msg)
	}

	results := sched.Run(ctx, stream.Targets())
	s.drain(results, summary, sched)

	stats := sched.Stats()
	summary.EndTime = time.Now()
	summary.PeakActive = stats.Peak
	s.reporter.Finish(summary)

	s.logger.Info("scan finished",
		"scan_id", info.ScanID,
		"completed", summary.Completed,
		"total", total,
		"matches", summary.Matches(),
		"peak_in_flight", stats.Peak,
		"elapsed", summary.Duration().Round(time.Millisecond),
	)

	if err := ctx.Err(); err != nil {
		s.logger.Warn("scan interrupted", "completed", summary.Completed, "total", total)
		return summary, err
	}
	return summary, nil
}

// drain es el único consumidor del canal de resultados: ScanSummary y
// los reporters no se tocan desde ninguna otra goroutine.
func (s *ScanService) drain(results <-chan domain.Result, summary *domain.ScanSummary, sched *scanner.Scheduler) {
	ticker := time.NewTicker(s.progress)
	defer ticker.Stop()

	for {
		select {
		case r, ok := <-results:
			if !ok {
				return
			}
			summary.Record(r)
			s.reporter.Result(r)
			if r.IsMatch() {
				s.logger.Debug("service found", "target", r.Target.String(), "version", r.Outcome.Version)
			}
		case <-ticker.C:
			st := sched.Stats()
			s.logger.Info("progress",
				"done", summary.Completed,
				"total", summary.Total,
				"matches", summary.Matches(),
				"in_flight", st.InFlight,
			)
		}
	}
}

// buildStream resuelve spec a un stream perezoso. Devuelve también el
// número de prefijos para ASN y fichero (0 para el resto).
func (s *ScanService) buildStream(ctx context.Context, spec domain.TargetSpec, portSpec domain.PortSpec) (*targets.Stream, int, error) {
	switch spec.Kind {
	case domain.TargetASN:
		if s.resolver == nil {
			return nil, 0, domain.ErrNoProviders
		}
		prefixes, err := s.resolver.Prefixes(ctx, spec.ASN)
		if err != nil {
			return nil, 0, err
		}
		stream, err := targets.FromPrefixes(prefixes, portSpec, s.policy)
		return stream, len(prefixes), err

	case domain.TargetPrefixFile:
		if s.loadFile == nil {
			return nil, 0, &domain.SpecParseError{Field: "asn-file", Input: spec.Path, Reason: "prefix files are not supported here"}
		}
		prefixes, err := s.loadFile(spec.Path)
		if err != nil {
			return nil, 0, err
		}
		s.logger.Info("prefix file loaded", "path", spec.Path, "prefixes", len(prefixes))
		stream, err := targets.FromPrefixes(prefixes, portSpec, s.policy)
		return stream, len(prefixes), err

	default:
		stream, err := targets.FromTarget(spec, portSpec, s.policy)
		return stream, 0, err
	}
}
