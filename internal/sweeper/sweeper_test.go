package sweeper

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"venuebook/pkg/logger"
	"venuebook/pkg/model"
)

type sweepOnlyService struct {
	calls       atomic.Int32
	completeErr error
}

func (s *sweepOnlyService) CompleteElapsed(_ context.Context) (int, error) {
	s.calls.Add(1)
	if s.completeErr != nil {
		return 0, s.completeErr
	}
	return 1, nil
}

func (s *sweepOnlyService) Submit(_ context.Context, _ *model.BookingRequest, _ string) (*model.Booking, error) {
	panic("not used")
}
func (s *sweepOnlyService) ChangeStatus(_ context.Context, _ string, _ model.BookingStatus) (*model.Booking, error) {
	panic("not used")
}
func (s *sweepOnlyService) GetByID(_ context.Context, _ string) (*model.Booking, error) {
	panic("not used")
}
func (s *sweepOnlyService) List(_ context.Context, _ model.BookingFilter, _ int, _ int64) ([]*model.Booking, int64, error) {
	panic("not used")
}
func (s *sweepOnlyService) CalendarView(_ context.Context, _ string, _, _ time.Time) ([]model.CalendarEntry, error) {
	panic("not used")
}
func (s *sweepOnlyService) RebuildIndex(_ context.Context) error { return nil }

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: logger.LevelError, Format: logger.FormatText, Service: "test"})
}

func TestRun_SweepsImmediatelyAndOnTicks(t *testing.T) {
	svc := &sweepOnlyService{}
	s := New(svc, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 55*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	// One immediate sweep plus at least a few ticks.
	assert.GreaterOrEqual(t, svc.calls.Load(), int32(3))
}

func TestRun_StopsOnCancel(t *testing.T) {
	svc := &sweepOnlyService{}
	s := New(svc, time.Hour, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on context cancel")
	}

	// The immediate sweep still ran before the loop observed cancellation.
	assert.Equal(t, int32(1), svc.calls.Load())
}

func TestRun_KeepsGoingAfterSweepError(t *testing.T) {
	svc := &sweepOnlyService{completeErr: errors.New("mongo unavailable")}
	s := New(svc, 10*time.Millisecond, testLogger())

	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()
	s.Run(ctx)

	assert.GreaterOrEqual(t, svc.calls.Load(), int32(2))
}
