package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"post_scheduler/internal/comment"
	"post_scheduler/internal/domain"
	"post_scheduler/internal/facebook"
)

// minDeferLead is the provider's minimum lead time for a deferred
// publication. Shorter requests fall back to posting live.
const minDeferLead = 10 * time.Minute

// PublishExecutor runs the publish protocol for one (item, page) pair:
// media attach, post creation, then comment posting on live posts.
// Failures never escape as errors; they come back as failed TargetResults.
type PublishExecutor struct {
	provider Provider
	splitter *comment.Splitter
	logger   *slog.Logger
}

func NewPublishExecutor(provider Provider, splitter *comment.Splitter, logger *slog.Logger) *PublishExecutor {
	return &PublishExecutor{
		provider: provider,
		splitter: splitter,
		logger:   logger.With("component", "executor"),
	}
}

func (e *PublishExecutor) Publish(ctx context.Context, item *domain.ContentItem, pageID, token, commentText string, deferAt *time.Time) domain.TargetResult {
	result := domain.TargetResult{PageID: pageID, PostMode: domain.PostModeLive}

	deferAt = e.normalizeDefer(pageID, deferAt)
	if deferAt != nil {
		result.PostMode = domain.PostModeScheduled
	}

	postID, err := e.createPost(ctx, item, pageID, token, deferAt)
	if err != nil {
		e.logger.Error("publish failed",
			"item_id", item.ID,
			"page_id", pageID,
			"error", err,
		)
		result.Status = domain.TargetFailed
		result.Message = err.Error()
		return result
	}

	result.Status = domain.TargetSuccess
	result.PostID = postID

	if result.PostMode == domain.PostModeScheduled {
		// The post is not live yet, so it is not commentable.
		result.Message = fmt.Sprintf("deferred at provider until %s", deferAt.UTC().Format(time.RFC3339))
		return result
	}

	if commentText != "" {
		result.Comments = e.postComments(ctx, postID, pageID, token, commentText)
	}
	return result
}

// createPost branches on the payload shape: video items go through the
// single upload-and-publish call, image/text items branch on media count.
func (e *PublishExecutor) createPost(ctx context.Context, item *domain.ContentItem, pageID, token string, deferAt *time.Time) (string, error) {
	if item.IsVideo() {
		return e.provider.UploadVideo(ctx, pageID, token, facebook.VideoUpload{
			Path:        item.VideoPath,
			Description: item.Body,
			IsReel:      item.IsReel,
			ScheduleAt:  deferAt,
		})
	}

	images := item.Images()
	switch {
	case len(images) == 0:
		post := facebook.FeedPost{Message: item.Body, ScheduleAt: deferAt}
		if item.LinkAffi != nil {
			post.Link = *item.LinkAffi
		}
		return e.provider.CreateFeedPost(ctx, pageID, token, post)

	case len(images) == 1:
		return e.provider.CreatePhotoPost(ctx, pageID, token, images[0], e.caption(item), deferAt)

	case len(images) <= domain.MaxImagesPerPost:
		// The provider has no single-call multi-photo primitive: stage
		// every photo unpublished, then create one aggregating post.
		mediaIDs := make([]string, 0, len(images))
		for i, imageURL := range images {
			mediaID, err := e.provider.UploadPhoto(ctx, pageID, token, imageURL, false)
			if err != nil {
				return "", fmt.Errorf("upload media %d/%d: %w", i+1, len(images), err)
			}
			mediaIDs = append(mediaIDs, mediaID)
		}
		return e.provider.CreateFeedPost(ctx, pageID, token, facebook.FeedPost{
			Message:          e.caption(item),
			AttachedMediaIDs: mediaIDs,
			ScheduleAt:       deferAt,
		})

	default:
		return "", fmt.Errorf("too many images: %d (max %d)", len(images), domain.MaxImagesPerPost)
	}
}

// postComments posts the comment batch sequentially. A failed comment is
// recorded and does not stop the remaining ones.
func (e *PublishExecutor) postComments(ctx context.Context, postID, pageID, token, commentText string) []domain.CommentResult {
	batch := e.splitter.Batch(commentText)
	results := make([]domain.CommentResult, 0, len(batch))

	for _, message := range batch {
		commentID, err := e.provider.CreateComment(ctx, postID, token, message)
		if err != nil {
			e.logger.Warn("comment failed",
				"post_id", postID,
				"page_id", pageID,
				"error", err,
			)
			results = append(results, domain.CommentResult{
				Text:   message,
				Status: "failed",
				Error:  err.Error(),
			})
			continue
		}
		results = append(results, domain.CommentResult{
			Text:      message,
			CommentID: commentID,
			Status:    "success",
		})
	}
	return results
}

func (e *PublishExecutor) normalizeDefer(pageID string, deferAt *time.Time) *time.Time {
	if deferAt == nil {
		return nil
	}
	if time.Until(*deferAt) < minDeferLead {
		e.logger.Warn("defer time too close, posting live",
			"page_id", pageID,
			"defer_at", deferAt,
		)
		return nil
	}
	return deferAt
}

func (e *PublishExecutor) caption(item *domain.ContentItem) string {
	if item.LinkAffi != nil && *item.LinkAffi != "" {
		return item.Body + "\n\n" + *item.LinkAffi
	}
	return item.Body
}
