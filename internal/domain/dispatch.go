package domain

import (
	"fmt"
	"strings"
	"time"
)

// TargetStatus is the result class for one (item, page) attempt.
type TargetStatus string

const (
	TargetSuccess TargetStatus = "success"
	TargetFailed  TargetStatus = "failed"
)

// PostMode reports whether the created post is already live or deferred
// at the provider. Comments are only attempted on live posts.
type PostMode string

const (
	PostModeLive      PostMode = "live"
	PostModeScheduled PostMode = "scheduled"
)

// CommentResult records one comment attempt on a created post.
type CommentResult struct {
	Text      string `json:"text"`
	CommentID string `json:"comment_id,omitempty"`
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
}

// TargetResult is the outcome of publishing one ContentItem to one page.
// It is created fresh per dispatch attempt and never persisted standalone.
type TargetResult struct {
	PageID   string          `json:"page_id"`
	Status   TargetStatus    `json:"status"`
	PostID   string          `json:"post_id,omitempty"`
	PostMode PostMode        `json:"post_mode,omitempty"`
	Comments []CommentResult `json:"comments,omitempty"`
	Message  string          `json:"message,omitempty"`
}

// CompositePostID returns the globally unique form of the produced post
// id. Provider responses sometimes already carry the page-qualified
// "pageID_postID" form; those are used verbatim.
func (r TargetResult) CompositePostID() string {
	if strings.Contains(r.PostID, "_") {
		return r.PostID
	}
	return r.PageID + "_" + r.PostID
}

// DispatchOutcome classifies one whole fan-out.
type DispatchOutcome string

const (
	DispatchSuccess DispatchOutcome = "success"
	DispatchPartial DispatchOutcome = "partial"
	DispatchFailed  DispatchOutcome = "failed"
)

// DispatchReport aggregates the per-page results of one dispatch call.
type DispatchReport struct {
	ItemID    string          `json:"item_id"`
	ItemName  string          `json:"item_name"`
	Outcome   DispatchOutcome `json:"outcome"`
	Results   []TargetResult  `json:"results"`
	PostedIDs []string        `json:"posted_ids"`
	Message   string          `json:"message"`
}

// SuccessCount returns how many pages accepted the post.
func (d *DispatchReport) SuccessCount() int {
	n := 0
	for _, r := range d.Results {
		if r.Status == TargetSuccess {
			n++
		}
	}
	return n
}

// CommentAttempts returns how many comments were attempted across pages.
func (d *DispatchReport) CommentAttempts() int {
	n := 0
	for _, r := range d.Results {
		n += len(r.Comments)
	}
	return n
}

// Summary builds the operator-facing message for the dispatch.
func (d *DispatchReport) Summary() string {
	return fmt.Sprintf("published to %d/%d pages, attempted %d comments",
		d.SuccessCount(), len(d.Results), d.CommentAttempts())
}

// ScanStats holds statistics about one scheduler scan cycle.
type ScanStats struct {
	Scanned   int
	Published int
	Partial   int
	Failed    int
	Errors    int
	Duration  time.Duration
}
