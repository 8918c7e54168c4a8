package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Sweepable expires everything past due and reports how many rows changed
type Sweepable interface {
	ExpireDue(ctx context.Context) (int64, error)
}

// ExpirySweeperConfig holds configuration for the expiry sweeper
type ExpirySweeperConfig struct {
	// Interval is how often the sweep runs
	Interval time.Duration

	// SweepTimeout bounds a single sweep run
	SweepTimeout time.Duration
}

// DefaultExpirySweeperConfig returns default sweeper configuration
func DefaultExpirySweeperConfig() ExpirySweeperConfig {
	return ExpirySweeperConfig{
		Interval:     5 * time.Minute,
		SweepTimeout: 30 * time.Second,
	}
}

// ExpirySweeper periodically expires overdue vouchers and payment sessions.
// Expiry is otherwise lazy, checked at redemption and confirmation time, so
// the sweeper only keeps listings and stored state from drifting.
type ExpirySweeper struct {
	config   ExpirySweeperConfig
	vouchers Sweepable
	sessions Sweepable
	logger   *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewExpirySweeper creates a new expiry sweeper
func NewExpirySweeper(config ExpirySweeperConfig, vouchers, sessions Sweepable, logger *zap.Logger) *ExpirySweeper {
	if config.Interval <= 0 {
		config.Interval = DefaultExpirySweeperConfig().Interval
	}
	if config.SweepTimeout <= 0 {
		config.SweepTimeout = DefaultExpirySweeperConfig().SweepTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ExpirySweeper{
		config:   config,
		vouchers: vouchers,
		sessions: sessions,
		logger:   logger,
	}
}

// Start starts the background sweep loop
func (s *ExpirySweeper) Start(ctx context.Context) error {
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

	s.logger.Info("Expiry sweeper started",
		zap.Duration("interval", s.config.Interval),
	)

	return nil
}

// Stop stops the sweep loop, waiting for an in-flight sweep to finish
func (s *ExpirySweeper) Stop(ctx context.Context) error {
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
		s.logger.Info("Expiry sweeper stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// runLoop sweeps on every tick until the context is cancelled
func (s *ExpirySweeper) runLoop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single sweep over both aggregates. A failure in one sweep
// does not stop the other.
func (s *ExpirySweeper) SweepOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, s.config.SweepTimeout)
	defer cancel()

	if n, err := s.vouchers.ExpireDue(ctx); err != nil {
		s.logger.Error("Voucher expiry sweep failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("Voucher expiry sweep done", zap.Int64("expired", n))
	}

	if n, err := s.sessions.ExpireDue(ctx); err != nil {
		s.logger.Error("Session expiry sweep failed", zap.Error(err))
	} else if n > 0 {
		s.logger.Info("Session expiry sweep done", zap.Int64("expired", n))
	}
}
