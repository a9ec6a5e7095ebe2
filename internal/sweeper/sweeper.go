package sweeper

import (
	"context"
	"time"

	"venuebook/internal/bookings/service"
	"venuebook/pkg/logger"
)

// Sweeper periodically transitions elapsed bookings to completed. The read
// path never mutates status; this loop is the only writer of completions,
// so a booking whose end time has passed stays upcoming until the next tick.
type Sweeper struct {
	service  service.BookingService
	interval time.Duration
	logger   *logger.Logger
}

func New(svc service.BookingService, interval time.Duration, log *logger.Logger) *Sweeper {
	return &Sweeper{
		service:  svc,
		interval: interval,
		logger:   log,
	}
}

// Run sweeps once immediately, then on every tick until the context is
// cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	s.logger.Info("sweeper started", "interval", s.interval)

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	completed, err := s.service.CompleteElapsed(ctx)
	if err != nil {
		s.logger.Error("sweep failed", "error", err)
		return
	}
	if completed > 0 {
		s.logger.Info("sweep completed bookings", "count", completed)
	}
}
