package postgres

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"post_scheduler/internal/domain"
)

type PageStore struct {
	db *sqlx.DB
}

func NewPageStore(db *sqlx.DB) *PageStore {
	return &PageStore{db: db}
}

type pageRow struct {
	PageID      string    `db:"page_id"`
	Name        string    `db:"name"`
	AccessToken string    `db:"access_token"`
	Category    *string   `db:"category"`
	SyncedAt    time.Time `db:"synced_at"`
}

// Resolve returns the stored publishing credential for a page.
func (s *PageStore) Resolve(ctx context.Context, pageID string) (string, error) {
	var token string
	err := s.db.GetContext(ctx, &token,
		"SELECT access_token FROM pages WHERE page_id = $1",
		pageID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrCredentialNotFound
	}
	if err != nil {
		return "", err
	}
	return token, nil
}

// UpsertBatch refreshes the mirrored directory in one statement. It runs
// against the ambient transaction when one is present on the context.
func (s *PageStore) UpsertBatch(ctx context.Context, pages []domain.Page) error {
	if len(pages) == 0 {
		return nil
	}

	var sb strings.Builder
	sb.WriteString("INSERT INTO pages (page_id, name, access_token, category, synced_at) VALUES ")
	args := make([]interface{}, 0, len(pages)*5)

	for i, page := range pages {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		for j := 0; j < 5; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("$")
			sb.WriteString(strconv.Itoa(i*5 + j + 1))
		}
		sb.WriteString(")")
		args = append(args, page.PageID, page.Name, page.AccessToken, page.Category, page.SyncedAt)
	}
	sb.WriteString(` ON CONFLICT (page_id) DO UPDATE SET
		name = EXCLUDED.name,
		access_token = EXCLUDED.access_token,
		category = EXCLUDED.category,
		synced_at = EXCLUDED.synced_at`)

	_, err := GetExecutor(ctx, s.db).ExecContext(ctx, sb.String(), args...)
	return err
}

func (s *PageStore) List(ctx context.Context) ([]domain.Page, error) {
	var rows []pageRow
	query := `
		SELECT page_id, name, access_token, category, synced_at
		FROM pages
		ORDER BY name ASC`

	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, err
	}

	pages := make([]domain.Page, 0, len(rows))
	for _, row := range rows {
		pages = append(pages, domain.Page{
			PageID:      row.PageID,
			Name:        row.Name,
			AccessToken: row.AccessToken,
			Category:    row.Category,
			SyncedAt:    row.SyncedAt,
		})
	}
	return pages, nil
}
