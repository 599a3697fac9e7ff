// Package scheduler drives the time-based publish loop: wake at the top
// of every hour, run one scan, re-arm. A manual trigger forces an
// immediate run but is refused while a scan is in flight, so overlapping
// scans can never double-dispatch an item before reconciliation.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"post_scheduler/internal/domain"
)

// ErrScanInProgress is returned by TriggerScan while a scan is running.
var ErrScanInProgress = errors.New("scan already in progress")

// Scanner runs one scheduler cycle.
type Scanner interface {
	Scan(ctx context.Context) (*domain.ScanStats, error)
}

type Scheduler struct {
	scanner     Scanner
	scanTimeout time.Duration
	logger      *slog.Logger

	running atomic.Bool
	trigger chan struct{}
}

func NewScheduler(scanner Scanner, scanTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		scanner:     scanner,
		scanTimeout: scanTimeout,
		logger:      logger.With("component", "scheduler"),
		trigger:     make(chan struct{}, 1),
	}
}

// Start runs the loop until the context is cancelled. One scan runs at
// startup, then the loop alternates between Idle (armed timer) and
// Running. Re-arming happens after every run, including failed ones, so
// a bad cycle can never stall the loop permanently.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started")

	s.runScan(ctx)

	for {
		wakeAt := NextWake(time.Now())
		timer := time.NewTimer(time.Until(wakeAt))
		s.logger.Debug("armed", "wake_at", wakeAt)

		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-timer.C:
			s.runScan(ctx)
		case <-s.trigger:
			timer.Stop()
			s.runScan(ctx)
		}
	}
}

// TriggerScan requests an immediate run. It is a no-op returning
// ErrScanInProgress while the loop is Running or a trigger is already
// queued.
func (s *Scheduler) TriggerScan() error {
	if s.running.Load() {
		return ErrScanInProgress
	}
	select {
	case s.trigger <- struct{}{}:
		return nil
	default:
		return ErrScanInProgress
	}
}

// Running reports whether a scan is currently in flight.
func (s *Scheduler) Running() bool {
	return s.running.Load()
}

func (s *Scheduler) runScan(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	defer s.running.Store(false)

	scanCtx, cancel := context.WithTimeout(ctx, s.scanTimeout)
	defer cancel()

	if _, err := s.scanner.Scan(scanCtx); err != nil {
		s.logger.Error("scan failed", "error", err)
	}
}

// NextWake returns the top of the next clock hour after now. Coarse
// polling granularity is deliberate; due times are day-windowed, not
// sub-minute.
func NextWake(now time.Time) time.Time {
	return now.Truncate(time.Hour).Add(time.Hour)
}
