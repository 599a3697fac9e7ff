package api

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"post_scheduler/internal/domain"
)

// CreateContentRequest is the payload of POST /api/contents.
type CreateContentRequest struct {
	Name              string     `json:"name"`
	Body              string     `json:"body"`
	ImageURLs         []string   `json:"image_urls"`
	VideoPath         string     `json:"video_path"`
	IsReel            bool       `json:"is_reel"`
	LinkAffi          *string    `json:"link_affi"`
	CommentTemplateID *string    `json:"comment_template_id"`
	ScheduleAt        *time.Time `json:"schedule_at"`
	TargetPageIDs     []string   `json:"target_page_ids"`
}

func (r CreateContentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.TargetPageIDs, validation.Required, validation.Length(1, 0)),
		validation.Field(&r.ImageURLs,
			validation.Length(0, domain.MaxImagesPerPost),
			validation.By(func(any) error {
				if len(r.ImageURLs) > 0 && r.VideoPath != "" {
					return errImagesAndVideo
				}
				return nil
			}),
		),
		validation.Field(&r.IsReel, validation.By(func(any) error {
			if r.IsReel && r.VideoPath == "" {
				return errReelWithoutVideo
			}
			return nil
		})),
	)
}

var errImagesAndVideo = validation.NewError(
	"validation_images_and_video",
	"an item carries either images or a video, not both",
)

var errReelWithoutVideo = validation.NewError(
	"validation_reel_without_video",
	"is_reel requires a video_path",
)

func (r CreateContentRequest) toDomain() *domain.ContentItem {
	return &domain.ContentItem{
		Name:              r.Name,
		Body:              r.Body,
		ImageURLs:         r.ImageURLs,
		VideoPath:         r.VideoPath,
		IsReel:            r.IsReel,
		LinkAffi:          r.LinkAffi,
		CommentTemplateID: r.CommentTemplateID,
		ScheduleAt:        r.ScheduleAt,
		TargetPageIDs:     r.TargetPageIDs,
		State:             domain.StateScheduled,
	}
}

// PublishContentRequest is the payload of POST /api/contents/:id/publish.
// A defer time pushes the publication to the provider's own scheduler.
type PublishContentRequest struct {
	DeferAt *time.Time `json:"defer_at"`
}

func (r PublishContentRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.DeferAt, validation.By(func(any) error {
			if r.DeferAt != nil && r.DeferAt.Before(time.Now()) {
				return errDeferInPast
			}
			return nil
		})),
	)
}

var errDeferInPast = validation.NewError(
	"validation_defer_in_past",
	"defer_at must be in the future",
)

// SyncPagesRequest is the payload of POST /api/pages/sync.
type SyncPagesRequest struct {
	UserToken string `json:"user_token"`
}

func (r SyncPagesRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.UserToken, validation.Required),
	)
}

// CreateTemplateRequest is the payload of POST /api/templates.
type CreateTemplateRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (r CreateTemplateRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}
