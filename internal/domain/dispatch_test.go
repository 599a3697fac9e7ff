package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompositePostID(t *testing.T) {
	tests := []struct {
		name   string
		result TargetResult
		want   string
	}{
		{
			name:   "bare id gets page-qualified",
			result: TargetResult{PageID: "111", PostID: "222"},
			want:   "111_222",
		},
		{
			name:   "already qualified id used verbatim",
			result: TargetResult{PageID: "333", PostID: "333_444"},
			want:   "333_444",
		},
		{
			name:   "qualified under foreign page still verbatim",
			result: TargetResult{PageID: "111", PostID: "999_444"},
			want:   "999_444",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.result.CompositePostID())
		})
	}
}

func TestDispatchReport_Summary(t *testing.T) {
	report := DispatchReport{
		Results: []TargetResult{
			{PageID: "111", Status: TargetSuccess, Comments: []CommentResult{{}, {}}},
			{PageID: "222", Status: TargetFailed},
			{PageID: "333", Status: TargetSuccess, Comments: []CommentResult{{}}},
		},
	}

	assert.Equal(t, 2, report.SuccessCount())
	assert.Equal(t, 3, report.CommentAttempts())
	assert.Equal(t, "published to 2/3 pages, attempted 3 comments", report.Summary())
}

func TestContentItem_Completed(t *testing.T) {
	empty := ""
	posted := "111_222"

	assert.False(t, (&ContentItem{}).Completed())
	assert.False(t, (&ContentItem{PrimaryPostID: &empty}).Completed())
	// One signal alone is not completion: the item stays a candidate.
	assert.False(t, (&ContentItem{PrimaryPostID: &posted}).Completed())
	assert.False(t, (&ContentItem{PostedIDs: []string{"111_222"}}).Completed())
	assert.False(t, (&ContentItem{PrimaryPostID: &empty, PostedIDs: []string{"111_222"}}).Completed())
	assert.True(t, (&ContentItem{PrimaryPostID: &posted, PostedIDs: []string{"111_222"}}).Completed())
}

func TestContentItem_Images(t *testing.T) {
	item := &ContentItem{ImageURLs: []string{"a", "", " b ", "   "}}
	assert.Equal(t, []string{"a", "b"}, item.Images())

	assert.False(t, item.IsVideo())
	assert.True(t, (&ContentItem{VideoPath: "/v.mp4"}).IsVideo())
}
