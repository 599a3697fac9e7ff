package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"post_scheduler/internal/domain"
	"post_scheduler/internal/facebook"
)

// ContentStore persists schedulable content items.
type ContentStore interface {
	Create(ctx context.Context, item *domain.ContentItem) error
	GetByID(ctx context.Context, id string) (*domain.ContentItem, error)
	// FindDue returns items whose schedule time falls inside
	// [windowStart, windowEnd), has arrived relative to now, and which
	// have not recorded any publish outcome yet, ordered by schedule time.
	FindDue(ctx context.Context, windowStart, windowEnd, now time.Time) ([]domain.ContentItem, error)
	// ListScheduledBetween returns every item scheduled inside the
	// window regardless of completion, for operator visibility.
	ListScheduledBetween(ctx context.Context, windowStart, windowEnd time.Time) ([]domain.ContentItem, error)
	// UpdateAfterPublish folds a dispatch outcome back into the item.
	UpdateAfterPublish(ctx context.Context, itemID, primaryPostID string, postedIDs []string, state domain.PublishState, postedAt time.Time) error
}

// CredentialResolver maps a target page id to its publishing credential.
type CredentialResolver interface {
	Resolve(ctx context.Context, pageID string) (string, error)
}

// PageStore persists the mirrored page directory.
type PageStore interface {
	CredentialResolver
	UpsertBatch(ctx context.Context, pages []domain.Page) error
	List(ctx context.Context) ([]domain.Page, error)
}

// TemplateStore holds reusable comment templates.
type TemplateStore interface {
	Get(ctx context.Context, templateID string) (string, error)
	Create(ctx context.Context, name, content string) (string, error)
}

// Provider is the downstream publishing provider.
type Provider interface {
	UploadPhoto(ctx context.Context, pageID, token, imageURL string, published bool) (string, error)
	CreatePhotoPost(ctx context.Context, pageID, token, imageURL, caption string, scheduleAt *time.Time) (string, error)
	CreateFeedPost(ctx context.Context, pageID, token string, post facebook.FeedPost) (string, error)
	CreateComment(ctx context.Context, postID, token, message string) (string, error)
	UploadVideo(ctx context.Context, pageID, token string, up facebook.VideoUpload) (string, error)
	ListAccounts(ctx context.Context, userToken string) ([]facebook.Account, error)
}

// Executor drives the publish protocol for one (item, page) pair.
type Executor interface {
	Publish(ctx context.Context, item *domain.ContentItem, pageID, token, commentText string, deferAt *time.Time) domain.TargetResult
}

// Dispatcher fans one item out across its target pages.
type Dispatcher interface {
	Dispatch(ctx context.Context, item *domain.ContentItem, deferAt *time.Time) (*domain.DispatchReport, error)
}

// EventPublisher emits dispatch outcomes to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, report *domain.DispatchReport) error
	Close() error
}

// TransactionManager runs a function inside a storage transaction.
type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
