package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"post_scheduler/internal/domain"
)

// ScanService runs one scheduler cycle: select today's due items and
// dispatch them one at a time. Sequential processing bounds concurrent
// calls against the credential and provider services.
type ScanService struct {
	contents   ContentStore
	dispatcher Dispatcher
	zone       *time.Location
	logger     *slog.Logger
}

// NewScanService builds a scan service. utcOffsetHours fixes the zone in
// which "today" is computed; items scheduled on past days are never
// picked up, so a crashed scheduler cannot flood-publish a stale backlog.
func NewScanService(contents ContentStore, dispatcher Dispatcher, utcOffsetHours int, logger *slog.Logger) *ScanService {
	return &ScanService{
		contents:   contents,
		dispatcher: dispatcher,
		zone:       time.FixedZone("scheduler", utcOffsetHours*3600),
		logger:     logger.With("component", "scan"),
	}
}

func (s *ScanService) Scan(ctx context.Context) (*domain.ScanStats, error) {
	startTime := time.Now()
	now := time.Now().UTC()
	windowStart, windowEnd := s.window(now)

	items, err := s.contents.FindDue(ctx, windowStart, windowEnd, now)
	if err != nil {
		return nil, fmt.Errorf("find due items: %w", err)
	}

	stats := &domain.ScanStats{Scanned: len(items)}
	if len(items) == 0 {
		s.logger.Debug("no due items")
		stats.Duration = time.Since(startTime)
		return stats, nil
	}

	s.logger.Info("found due items", "count", len(items))

	for i := range items {
		item := &items[i]

		report, err := s.dispatcher.Dispatch(ctx, item, nil)
		if err != nil {
			// Item-level system failures must not halt the cycle.
			stats.Errors++
			s.logger.Error("dispatch failed",
				"item_id", item.ID,
				"item_name", item.Name,
				"error", err,
			)
			continue
		}

		switch report.Outcome {
		case domain.DispatchSuccess:
			stats.Published++
		case domain.DispatchPartial:
			stats.Partial++
		default:
			stats.Failed++
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("scan completed",
		"scanned", stats.Scanned,
		"published", stats.Published,
		"partial", stats.Partial,
		"failed", stats.Failed,
		"errors", stats.Errors,
		"duration", stats.Duration,
	)
	return stats, nil
}

// PendingToday is the read-only projection of today's candidate set for
// operator visibility: every item scheduled inside the current day window
// that has not recorded a publish outcome yet.
func (s *ScanService) PendingToday(ctx context.Context) ([]domain.ContentItem, error) {
	windowStart, windowEnd := s.window(time.Now().UTC())

	items, err := s.contents.ListScheduledBetween(ctx, windowStart, windowEnd)
	if err != nil {
		return nil, fmt.Errorf("list scheduled items: %w", err)
	}

	pending := make([]domain.ContentItem, 0, len(items))
	for _, item := range items {
		if !item.Completed() {
			pending = append(pending, item)
		}
	}
	return pending, nil
}

func (s *ScanService) window(now time.Time) (time.Time, time.Time) {
	local := now.In(s.zone)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.zone)
	return start, start.AddDate(0, 0, 1)
}
