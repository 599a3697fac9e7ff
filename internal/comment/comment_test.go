package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{"empty", "", nil},
		{"single line", "hello", []string{"hello"}},
		{"drops blank lines", "a\nb\n\nc\nd", []string{"a", "b", "c", "d"}},
		{"trims whitespace", "  a  \n\tb\t\n   ", []string{"a", "b"}},
		{"only blanks", "\n\n   \n", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Split(tt.raw))
		})
	}
}

func TestBatch_ShufflesAboveThreshold(t *testing.T) {
	shuffled := false
	s := NewSplitter(WithShuffle(func(batch []string) {
		shuffled = true
	}))

	got := s.Batch("a\nb\n\nc\nd")

	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
	assert.True(t, shuffled, "4 lines exceed the default threshold of 3")
}

func TestBatch_KeepsOrderAtOrBelowThreshold(t *testing.T) {
	s := NewSplitter(WithShuffle(func(batch []string) {
		t.Fatal("shuffle must not run for small batches")
	}))

	got := s.Batch("a\n\nb")

	assert.Equal(t, []string{"a", "b"}, got)
}

func TestBatch_CustomThreshold(t *testing.T) {
	calls := 0
	s := NewSplitter(
		WithThreshold(1),
		WithShuffle(func(batch []string) { calls++ }),
	)

	s.Batch("a\nb")
	assert.Equal(t, 1, calls)

	s.Batch("a")
	assert.Equal(t, 1, calls, "batch of one never shuffles")
}

func TestBatch_DefaultShufflePermutes(t *testing.T) {
	s := NewSplitter()
	in := "a\nb\nc\nd\ne\nf"

	got := s.Batch(in)

	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e", "f"}, got)
	assert.Len(t, got, 6)
}
