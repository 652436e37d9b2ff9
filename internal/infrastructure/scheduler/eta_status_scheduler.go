// Package scheduler ejecuta tareas periódicas de fondo.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/jhoicas/eta-einvoice/internal/application/einvoice"
	"github.com/jhoicas/eta-einvoice/pkg/logger"
)

// PendingReconciler lo implementa *einvoice.Orchestrator.
type PendingReconciler interface {
	ReconcilePending(ctx context.Context, limit int) (einvoice.ReconcileReport, error)
}

// ETAStatusConfig configuración de la conciliación periódica.
type ETAStatusConfig struct {
	Interval   time.Duration // 0 = desactivada
	BatchSize  int
	RunTimeout time.Duration
}

// ETAStatusScheduler consulta periódicamente a la ETA el estado de los documentos en submitted.
type ETAStatusScheduler struct {
	reconciler PendingReconciler
	config     ETAStatusConfig
	log        *logger.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewETAStatusScheduler construye el scheduler.
func NewETAStatusScheduler(reconciler PendingReconciler, config ETAStatusConfig, log *logger.Logger) *ETAStatusScheduler {
	if config.BatchSize <= 0 {
		config.BatchSize = 50
	}
	if config.RunTimeout <= 0 {
		config.RunTimeout = 5 * time.Minute
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ETAStatusScheduler{reconciler: reconciler, config: config, log: log}
}

// Start arranca el ciclo en segundo plano. Con Interval 0 no hace nada.
func (s *ETAStatusScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return
	}
	if s.config.Interval <= 0 {
		s.log.Info().Msg("conciliación periódica de estados ETA desactivada")
		return
	}
	s.isRunning = true

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.wg.Add(1)
	go s.loop(ctx)

	s.log.Info().
		Dur("interval", s.config.Interval).
		Int("batch_size", s.config.BatchSize).
		Msg("conciliación periódica de estados ETA iniciada")
}

// Stop detiene el ciclo y espera a que termine la pasada en curso, o a que venza ctx.
func (s *ETAStatusScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.cancel()
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		s.log.Warn().Msg("la conciliación de estados ETA no terminó a tiempo")
		return ctx.Err()
	}
}

func (s *ETAStatusScheduler) loop(ctx context.Context) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.RunOnce(ctx)
		}
	}
}

// RunOnce ejecuta una pasada de conciliación con su propio timeout.
func (s *ETAStatusScheduler) RunOnce(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, s.config.RunTimeout)
	defer cancel()

	start := time.Now()
	report, err := s.reconciler.ReconcilePending(runCtx, s.config.BatchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("conciliación de estados ETA fallida")
		return
	}
	if report.Checked > 0 {
		s.log.Info().
			Int("checked", report.Checked).
			Int("updated", report.Updated).
			Int("failed", report.Failed).
			Dur("took", time.Since(start)).
			Msg("conciliación de estados ETA")
	}
}
