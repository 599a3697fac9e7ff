package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"post_scheduler/internal/domain"
)

type TemplateStore struct {
	db *sqlx.DB
}

func NewTemplateStore(db *sqlx.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

func (s *TemplateStore) Get(ctx context.Context, templateID string) (string, error) {
	var content string
	err := s.db.GetContext(ctx, &content,
		"SELECT content FROM comment_templates WHERE id = $1",
		templateID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "", domain.ErrTemplateNotFound
	}
	if err != nil {
		return "", err
	}
	return content, nil
}

func (s *TemplateStore) Create(ctx context.Context, name, content string) (string, error) {
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO comment_templates (id, name, content, created_at) VALUES ($1, $2, $3, $4)",
		id, name, content, time.Now().UTC(),
	)
	if err != nil {
		return "", err
	}
	return id, nil
}
