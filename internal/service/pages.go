package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"post_scheduler/internal/domain"
)

// PageSyncService mirrors the provider's account directory into the local
// page store, refreshing the per-page publishing credentials the
// dispatcher resolves against.
type PageSyncService struct {
	provider  Provider
	pages     PageStore
	txManager TransactionManager
	logger    *slog.Logger
}

func NewPageSyncService(provider Provider, pages PageStore, txManager TransactionManager, logger *slog.Logger) *PageSyncService {
	return &PageSyncService{
		provider:  provider,
		pages:     pages,
		txManager: txManager,
		logger:    logger.With("component", "pagesync"),
	}
}

// Sync pulls the pages a user token manages and upserts them atomically.
func (s *PageSyncService) Sync(ctx context.Context, userToken string) (int, error) {
	accounts, err := s.provider.ListAccounts(ctx, userToken)
	if err != nil {
		return 0, fmt.Errorf("list accounts: %w", err)
	}
	if len(accounts) == 0 {
		return 0, nil
	}

	now := time.Now().UTC()
	pages := make([]domain.Page, 0, len(accounts))
	for _, acc := range accounts {
		category := acc.Category
		pages = append(pages, domain.Page{
			PageID:      acc.ID,
			Name:        acc.Name,
			AccessToken: acc.AccessToken,
			Category:    &category,
			SyncedAt:    now,
		})
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		return s.pages.UpsertBatch(txCtx, pages)
	})
	if err != nil {
		return 0, fmt.Errorf("upsert pages: %w", err)
	}

	s.logger.Info("page directory synced", "count", len(pages))
	return len(pages), nil
}
