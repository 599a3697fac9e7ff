package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"post_scheduler/internal/domain"
)

type ContentStore struct {
	db *sqlx.DB
}

func NewContentStore(db *sqlx.DB) *ContentStore {
	return &ContentStore{db: db}
}

// contentRow mirrors the contents table; array columns need pq wrappers
// before they can round-trip through sqlx.
type contentRow struct {
	ID                string         `db:"id"`
	Name              string         `db:"name"`
	Body              string         `db:"body"`
	ImageURLs         pq.StringArray `db:"image_urls"`
	VideoPath         sql.NullString `db:"video_path"`
	IsReel            bool           `db:"is_reel"`
	LinkAffi          *string        `db:"link_affi"`
	CommentTemplateID *string        `db:"comment_template_id"`
	ScheduleAt        *time.Time     `db:"schedule_at"`
	TargetPageIDs     pq.StringArray `db:"target_page_ids"`
	PrimaryPostID     *string        `db:"primary_post_id"`
	PostedIDs         pq.StringArray `db:"posted_ids"`
	PostedAt          *time.Time     `db:"posted_at"`
	State             string         `db:"state"`
	CreatedAt         time.Time      `db:"created_at"`
	UpdatedAt         time.Time      `db:"updated_at"`
}

func (r contentRow) toDomain() domain.ContentItem {
	return domain.ContentItem{
		ID:                r.ID,
		Name:              r.Name,
		Body:              r.Body,
		ImageURLs:         r.ImageURLs,
		VideoPath:         r.VideoPath.String,
		IsReel:            r.IsReel,
		LinkAffi:          r.LinkAffi,
		CommentTemplateID: r.CommentTemplateID,
		ScheduleAt:        r.ScheduleAt,
		TargetPageIDs:     r.TargetPageIDs,
		PrimaryPostID:     r.PrimaryPostID,
		PostedIDs:         r.PostedIDs,
		PostedAt:          r.PostedAt,
		State:             domain.PublishState(r.State),
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
}

func (s *ContentStore) Create(ctx context.Context, item *domain.ContentItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.State == "" {
		item.State = domain.StateScheduled
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	query := `
		INSERT INTO contents (
			id, name, body, image_urls, video_path, is_reel, link_affi,
			comment_template_id, schedule_at, target_page_ids, state,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	_, err := s.db.ExecContext(ctx, query,
		item.ID,
		item.Name,
		item.Body,
		pq.StringArray(item.ImageURLs),
		item.VideoPath,
		item.IsReel,
		item.LinkAffi,
		item.CommentTemplateID,
		item.ScheduleAt,
		pq.StringArray(item.TargetPageIDs),
		item.State,
		item.CreatedAt,
		item.UpdatedAt,
	)
	return err
}

func (s *ContentStore) GetByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	var row contentRow
	query := `
		SELECT id, name, body, image_urls, video_path, is_reel, link_affi,
		       comment_template_id, schedule_at, target_page_ids,
		       primary_post_id, posted_ids, posted_at, state,
		       created_at, updated_at
		FROM contents
		WHERE id = $1`

	err := s.db.GetContext(ctx, &row, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}

	item := row.toDomain()
	return &item, nil
}

// FindDue selects the day's arrived, not-yet-handled items. The handled
// predicate is the negation of ContentItem.Completed: an item stays a
// candidate until both a primary post id and posted ids are recorded.
func (s *ContentStore) FindDue(ctx context.Context, windowStart, windowEnd, now time.Time) ([]domain.ContentItem, error) {
	query := `
		SELECT id, name, body, image_urls, video_path, is_reel, link_affi,
		       comment_template_id, schedule_at, target_page_ids,
		       primary_post_id, posted_ids, posted_at, state,
		       created_at, updated_at
		FROM contents
		WHERE schedule_at IS NOT NULL
		  AND schedule_at >= $1
		  AND schedule_at < $2
		  AND schedule_at <= $3
		  AND (primary_post_id IS NULL OR primary_post_id = '' OR cardinality(posted_ids) = 0)
		ORDER BY schedule_at ASC`

	return s.selectItems(ctx, query, windowStart, windowEnd, now)
}

func (s *ContentStore) ListScheduledBetween(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.ContentItem, error) {
	query := `
		SELECT id, name, body, image_urls, video_path, is_reel, link_affi,
		       comment_template_id, schedule_at, target_page_ids,
		       primary_post_id, posted_ids, posted_at, state,
		       created_at, updated_at
		FROM contents
		WHERE schedule_at IS NOT NULL
		  AND schedule_at >= $1
		  AND schedule_at < $2
		ORDER BY schedule_at ASC`

	return s.selectItems(ctx, query, windowStart, windowEnd)
}

func (s *ContentStore) UpdateAfterPublish(ctx context.Context, itemID, primaryPostID string, postedIDs []string, state domain.PublishState, postedAt time.Time) error {
	query := `
		UPDATE contents
		SET primary_post_id = $2,
		    posted_ids = $3,
		    state = $4,
		    posted_at = $5,
		    updated_at = $5
		WHERE id = $1`

	res, err := s.db.ExecContext(ctx, query, itemID, primaryPostID, pq.StringArray(postedIDs), state, postedAt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

func (s *ContentStore) selectItems(ctx context.Context, query string, args ...any) ([]domain.ContentItem, error) {
	var rows []contentRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, err
	}

	items := make([]domain.ContentItem, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toDomain())
	}
	return items, nil
}
