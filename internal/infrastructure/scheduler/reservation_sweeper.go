package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/backoffice/backend/internal/infrastructure/config"
)

// ReservationExpirer releases stock held by pending orders whose reservation
// deadline has passed. The checkout service implements it.
type ReservationExpirer interface {
	ExpireReservations(ctx context.Context, now time.Time, limit int) (int, error)
}

// ReservationSweeper periodically sweeps expired order reservations so the
// reserved stock flows back into the sellable counters.
type ReservationSweeper struct {
	cfg     config.SchedulerConfig
	expirer ReservationExpirer
	logger  *zap.Logger
	clock   func() time.Time

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewReservationSweeper creates a sweeper driven by the scheduler config
func NewReservationSweeper(cfg config.SchedulerConfig, expirer ReservationExpirer, logger *zap.Logger) *ReservationSweeper {
	return &ReservationSweeper{
		cfg:     cfg,
		expirer: expirer,
		logger:  logger,
		clock:   time.Now,
	}
}

// Start launches the sweep loop. Calling Start on a running sweeper is a no-op.
func (s *ReservationSweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.runLoop(ctx)

	s.logger.Info("Reservation sweeper started",
		zap.Duration("interval", s.cfg.SweepInterval),
		zap.Int("batch_size", s.cfg.SweepBatchSize),
	)

	return nil
}

// Stop stops the sweep loop and waits for an in-flight sweep to finish
func (s *ReservationSweeper) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Reservation sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *ReservationSweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	// Sweep once on startup so a restart doesn't leave stale reservations
	// sitting until the first tick.
	s.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *ReservationSweeper) sweep(ctx context.Context) {
	released, err := s.expirer.ExpireReservations(ctx, s.clock(), s.cfg.SweepBatchSize)
	if err != nil {
		s.logger.Error("Reservation sweep failed", zap.Error(err))
		return
	}
	if released > 0 {
		s.logger.Info("Released expired reservations", zap.Int("count", released))
	}
}
