package domain

import (
	"strings"
	"time"
)

// PublishState is the explicit lifecycle state of a ContentItem.
// It is computed once at reconciliation time so "never attempted" and
// "attempted but every page failed" stay distinguishable.
type PublishState string

const (
	StateScheduled          PublishState = "scheduled"
	StatePartiallyPublished PublishState = "partially_published"
	StatePublished          PublishState = "published"
)

// MaxImagesPerPost is the provider-side bound on attached media per post.
const MaxImagesPerPost = 8

// ContentItem is one schedulable unit of content. An item is either an
// image/text item (ImageURLs, possibly empty) or a video item (VideoPath);
// the two are mutually exclusive.
type ContentItem struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Body              string       `json:"body"`
	ImageURLs         []string     `json:"image_urls,omitempty"`
	VideoPath         string       `json:"video_path,omitempty"`
	IsReel            bool         `json:"is_reel,omitempty"`
	LinkAffi          *string      `json:"link_affi,omitempty"`
	CommentTemplateID *string      `json:"comment_template_id,omitempty"`
	ScheduleAt        *time.Time   `json:"schedule_at,omitempty"`
	TargetPageIDs     []string     `json:"target_page_ids"`
	PrimaryPostID     *string      `json:"primary_post_id,omitempty"`
	PostedIDs         []string     `json:"posted_ids,omitempty"`
	PostedAt          *time.Time   `json:"posted_at,omitempty"`
	State             PublishState `json:"state"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// IsVideo reports whether the item publishes through the video endpoint.
func (c *ContentItem) IsVideo() bool {
	return c.VideoPath != ""
}

// Images returns the media list without blank entries.
func (c *ContentItem) Images() []string {
	var out []string
	for _, u := range c.ImageURLs {
		if trimmed := strings.TrimSpace(u); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Completed reports whether a scan must skip the item. Both completion
// signals must be recorded: an item with only one of them is still a
// dispatch candidate and shows up as pending.
func (c *ContentItem) Completed() bool {
	return c.PrimaryPostID != nil && *c.PrimaryPostID != "" && len(c.PostedIDs) > 0
}

// Page is a destination fan page with its publishing credential,
// mirrored locally from the provider's account directory.
type Page struct {
	PageID      string    `json:"page_id"`
	Name        string    `json:"name"`
	AccessToken string    `json:"-"`
	Category    *string   `json:"category,omitempty"`
	SyncedAt    time.Time `json:"synced_at"`
}
