// internal/platform/workerpool/worker_pool.go
package workerpool

import (
	"context"
	"sync"

	"go.uber.org/atomic"
	"golang.org/x/sync/semaphore"

	"webfigscan/internal/platform/logx"
)

// Pool es una compuerta de admisión de capacidad fija. Go bloquea al
// llamador hasta que haya un hueco libre, así el productor de tareas
// nunca adelanta más de Size tareas en vuelo.
type Pool struct {
	size   int64
	sem    *semaphore.Weighted
	logger logx.Logger

	inFlight  atomic.Int64
	peak      atomic.Int64
	completed atomic.Int64

	wg sync.WaitGroup
}

// Config configura el pool.
type Config struct {
	Size   int
	Logger logx.Logger
}

// Stats es una foto de los contadores del pool.
type Stats struct {
	Size      int
	InFlight  int64
	Peak      int64
	Completed int64
}

// New crea un pool; Size <= 0 se trata como 1.
func New(cfg Config) *Pool {
	if cfg.Size <= 0 {
		cfg.Size = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = logx.New()
	}

	return &Pool{
		size:   int64(cfg.Size),
		sem:    semaphore.NewWeighted(int64(cfg.Size)),
		logger: cfg.Logger.With("component", "worker-pool"),
	}
}

// Go espera un hueco y ejecuta fn en su propia goroutine. Si ctx termina
// antes de conseguir hueco, fn no se ejecuta y se devuelve ctx.Err().
func (p *Pool) Go(ctx context.Context, fn func()) error {
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	n := p.inFlight.Inc()
	p.raisePeak(n)

	p.wg.Add(1)
	go func() {
		defer func() {
			// el contador baja antes de liberar el hueco: InFlight <= Size siempre
			p.inFlight.Dec()
			p.completed.Inc()
			p.sem.Release(1)
			p.wg.Done()
		}()
		fn()
	}()

	return nil
}

// Wait bloquea hasta que todas las tareas admitidas terminen.
func (p *Pool) Wait() {
	p.wg.Wait()
	p.logger.Debug("pool drained",
		"completed", p.completed.Load(),
		"peak", p.peak.Load(),
	)
}

// InFlight devuelve cuántas tareas están ejecutándose ahora mismo.
func (p *Pool) InFlight() int64 { return p.inFlight.Load() }

// Peak devuelve el máximo de tareas simultáneas observado.
func (p *Pool) Peak() int64 { return p.peak.Load() }

// Stats retorna estadísticas del pool.
func (p *Pool) Stats() Stats {
	return Stats{
		Size:      int(p.size),
		InFlight:  p.inFlight.Load(),
		Peak:      p.peak.Load(),
		Completed: p.completed.Load(),
	}
}

func (p *Pool) raisePeak(n int64) {
	for {
		cur := p.peak.Load()
		if n <= cur || p.peak.CompareAndSwap(cur, n) {
			return
		}
	}
}
