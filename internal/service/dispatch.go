package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"post_scheduler/internal/domain"
)

// DispatchService fans one content item out across its target pages,
// aggregates per-page results and reconciles the outcome back into the
// content store. Per-page failures are isolated: one page failing never
// prevents the remaining pages from being attempted.
type DispatchService struct {
	executor  Executor
	resolver  CredentialResolver
	contents  ContentStore
	templates TemplateStore
	events    EventPublisher
	logger    *slog.Logger
}

func NewDispatchService(
	executor Executor,
	resolver CredentialResolver,
	contents ContentStore,
	templates TemplateStore,
	events EventPublisher,
	logger *slog.Logger,
) *DispatchService {
	return &DispatchService{
		executor:  executor,
		resolver:  resolver,
		contents:  contents,
		templates: templates,
		events:    events,
		logger:    logger.With("component", "dispatch"),
	}
}

func (s *DispatchService) Dispatch(ctx context.Context, item *domain.ContentItem, deferAt *time.Time) (*domain.DispatchReport, error) {
	if len(item.TargetPageIDs) == 0 {
		return nil, domain.ErrNoTargets
	}

	commentText, err := s.loadCommentText(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("load comment template: %w", err)
	}

	report := &domain.DispatchReport{
		ItemID:   item.ID,
		ItemName: item.Name,
		Results:  make([]domain.TargetResult, 0, len(item.TargetPageIDs)),
	}

	for _, pageID := range item.TargetPageIDs {
		token, err := s.resolver.Resolve(ctx, pageID)
		if err != nil {
			s.logger.Warn("credential resolution failed",
				"item_id", item.ID,
				"page_id", pageID,
				"error", err,
			)
			report.Results = append(report.Results, domain.TargetResult{
				PageID:  pageID,
				Status:  domain.TargetFailed,
				Message: fmt.Sprintf("no access token for page %s: %v", pageID, err),
			})
			continue
		}

		result := s.executor.Publish(ctx, item, pageID, token, commentText, deferAt)
		report.Results = append(report.Results, result)
	}

	for _, r := range report.Results {
		if r.Status == domain.TargetSuccess {
			report.PostedIDs = append(report.PostedIDs, r.CompositePostID())
		}
	}

	switch {
	case report.SuccessCount() == len(report.Results):
		report.Outcome = domain.DispatchSuccess
	case report.SuccessCount() > 0:
		report.Outcome = domain.DispatchPartial
	default:
		report.Outcome = domain.DispatchFailed
	}
	report.Message = report.Summary()

	// Reconcile exactly once per dispatch, not once per page. Items with
	// zero successes stay eligible for the next scan.
	if len(report.PostedIDs) > 0 {
		state := domain.StatePublished
		if report.Outcome == domain.DispatchPartial {
			state = domain.StatePartiallyPublished
		}
		if err := s.contents.UpdateAfterPublish(ctx, item.ID, report.PostedIDs[0], report.PostedIDs, state, time.Now().UTC()); err != nil {
			return report, fmt.Errorf("reconcile publish outcome: %w", err)
		}
	}

	s.emit(ctx, report)

	s.logger.Info("dispatch completed",
		"item_id", item.ID,
		"outcome", report.Outcome,
		"message", report.Message,
	)
	return report, nil
}

// loadCommentText resolves the attached template once per dispatch; the
// executor re-splits (and potentially re-shuffles) it per page. A missing
// template downgrades to publishing without comments.
func (s *DispatchService) loadCommentText(ctx context.Context, item *domain.ContentItem) (string, error) {
	if item.CommentTemplateID == nil || *item.CommentTemplateID == "" {
		return "", nil
	}
	text, err := s.templates.Get(ctx, *item.CommentTemplateID)
	if errors.Is(err, domain.ErrTemplateNotFound) {
		s.logger.Warn("comment template missing, publishing without comments",
			"item_id", item.ID,
			"template_id", *item.CommentTemplateID,
		)
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return text, nil
}

// emit reports the outcome downstream. Event failures never fail the
// dispatch; the reconciled store row remains the source of truth.
func (s *DispatchService) emit(ctx context.Context, report *domain.DispatchReport) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, report); err != nil {
		s.logger.Error("outcome event publish failed",
			"item_id", report.ItemID,
			"error", err,
		)
	}
}
