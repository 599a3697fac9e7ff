// Package comment turns a stored comment template into the ordered batch
// of discrete comment strings posted under a published item.
package comment

import (
	"math/rand"
	"strings"
)

// DefaultShuffleThreshold: batches larger than this are reordered before
// posting so duplicate runs do not produce an identical comment
// fingerprint. An anti-spam-detection heuristic, not a correctness rule.
const DefaultShuffleThreshold = 3

// Split breaks a template into trimmed, non-empty lines.
func Split(raw string) []string {
	if raw == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Splitter produces comment batches with a configurable shuffle strategy.
type Splitter struct {
	threshold int
	shuffle   func([]string)
}

// Option configures a Splitter.
type Option func(*Splitter)

// WithThreshold overrides the batch size above which shuffling applies.
func WithThreshold(n int) Option {
	return func(s *Splitter) { s.threshold = n }
}

// WithShuffle overrides the shuffle function, mainly for tests.
func WithShuffle(fn func([]string)) Option {
	return func(s *Splitter) { s.shuffle = fn }
}

func NewSplitter(opts ...Option) *Splitter {
	s := &Splitter{
		threshold: DefaultShuffleThreshold,
		shuffle:   fisherYates,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Batch splits the template and shuffles the result when it exceeds the
// threshold. Batches at or below the threshold keep their original order.
func (s *Splitter) Batch(raw string) []string {
	batch := Split(raw)
	if len(batch) > s.threshold {
		s.shuffle(batch)
	}
	return batch
}

func fisherYates(batch []string) {
	for i := len(batch) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		batch[i], batch[j] = batch[j], batch[i]
	}
}
