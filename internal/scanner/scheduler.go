package scanner

import (
	"context"
	"iter"

	"go.uber.org/atomic"

	"webfigscan/internal/core/domain"
	"webfigscan/internal/core/ports"
	"webfigscan/internal/platform/logx"
	"webfigscan/internal/platform/rate"
	"webfigscan/internal/platform/workerpool"
)

// Scheduler ejecuta un probe por ProbeTarget con como mucho
// ScanConfig.Concurrency en vuelo. La admisión sigue el orden del stream;
// el orden de finalización es libre.
type Scheduler struct {
	cfg     domain.ScanConfig
	prober  ports.Prober
	pool    *workerpool.Pool
	limiter *rate.Limiter
	logger  logx.Logger

	submitted atomic.Int64
}

// SchedulerStats es una foto de los contadores.
type SchedulerStats struct {
	Submitted int64
	Completed int64
	InFlight  int64
	Peak      int64
}

// NewScheduler valida cfg y prepara el pool.
func NewScheduler(cfg domain.ScanConfig, prober ports.Prober, logger logx.Logger) (*Scheduler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logx.Nop()
	}

	s := &Scheduler{
		cfg:    cfg,
		prober: prober,
		pool:   workerpool.New(workerpool.Config{Size: cfg.Concurrency, Logger: logger}),
		logger: logger.With("component", "scheduler"),
	}
	if cfg.Rate > 0 {
		burst := int(cfg.Rate / 10)
		s.limiter = rate.New(cfg.Rate, max(burst, 1))
	}
	return s, nil
}

// Run consume targets y devuelve el canal de resultados, que se cierra
// cuando todos los probes admitidos han terminado. Si ctx se cancela deja
// de admitir; los probes en vuelo terminan por su propio timeout. El
// llamador debe vaciar el canal.
func (s *Scheduler) Run(ctx context.Context, targets iter.Seq[domain.ProbeTarget]) <-chan domain.Result {
	results := make(chan domain.Result, s.cfg.Concurrency)

	go func() {
		defer close(results)
		defer s.pool.Wait()

		for t := range targets {
			if s.limiter != nil {
				if err := s.limiter.Wait(ctx); err != nil {
					s.logger.Warn("admission stopped", "reason", err.Error())
					return
				}
			}
			err := s.pool.Go(ctx, func() {
				results <- s.prober.Probe(ctx, t)
			})
			if err != nil {
				s.logger.Warn("admission stopped", "reason", err.Error())
				return
			}
			s.submitted.Inc()
		}
		s.logger.Debug("target stream exhausted", "submitted", s.submitted.Load())
	}()

	return results
}

// Stats devuelve los contadores actuales.
func (s *Scheduler) Stats() SchedulerStats {
	ps := s.pool.Stats()
	return SchedulerStats{
		Submitted: s.submitted.Load(),
		Completed: ps.Completed,
		InFlight:  ps.InFlight,
		Peak:      ps.Peak,
	}
}
