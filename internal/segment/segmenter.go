// Package segment splits procedural SQL scripts into ordered, bounded-size
// blocks that can be processed independently downstream. It recognizes
// top-level constructs by boundary keywords, breaks oversized constructs at
// statement boundaries, and coalesces undersized fragments, keeping each
// block near the caller-supplied character budget.
package segment

import (
	"strings"

	"sqlseg/internal/domain"
)

const (
	// DefaultMaxChunkSize is the default block size budget in characters.
	DefaultMaxChunkSize = 1200
	// DefaultSmallFragment is the size below which a fragment is eligible
	// for merging with its neighbors.
	DefaultSmallFragment = 180
	// DefaultMergeCeiling is the combined size at which a merge buffer is
	// flushed.
	DefaultMergeCeiling = 300
)

// Options controls segmentation thresholds. Zero values fall back to the
// defaults above.
type Options struct {
	MaxChunkSize  int
	SmallFragment int
	MergeCeiling  int
}

func (o Options) withDefaults() Options {
	if o.MaxChunkSize <= 0 {
		o.MaxChunkSize = DefaultMaxChunkSize
	}
	if o.SmallFragment <= 0 {
		o.SmallFragment = DefaultSmallFragment
	}
	if o.MergeCeiling <= 0 {
		o.MergeCeiling = DefaultMergeCeiling
	}
	return o
}

// Segmenter is a stateless script splitter. Instances are safe for
// concurrent use; each call works only on its own input.
type Segmenter struct {
	opts Options
}

// New creates a Segmenter with the given options.
func New(opts Options) *Segmenter {
	return &Segmenter{opts: opts.withDefaults()}
}

// Budget returns the effective max chunk size.
func (s *Segmenter) Budget() int {
	return s.opts.MaxChunkSize
}

// Segment splits script into ordered blocks. Blocks preserve source order,
// are never empty or comment-only, and stay within the budget except for
// single atomic statements that themselves exceed it.
func (s *Segmenter) Segment(script string) []domain.Block {
	units := extract(script)
	units = dropCommentOnly(units)

	var frags []string
	for _, u := range units {
		if len(u) > s.opts.MaxChunkSize || isCompound(u) {
			frags = append(frags, s.decompose(u)...)
		} else {
			frags = append(frags, u)
		}
	}

	final := dropCommentOnly(s.normalize(frags))

	blocks := make([]domain.Block, 0, len(final))
	for i, text := range final {
		blocks = append(blocks, domain.Block{
			Seq:   i + 1,
			Text:  text,
			Type:  Classify(text),
			Chars: len(text),
			Lines: strings.Count(text, "\n") + 1,
		})
	}
	return blocks
}

// isCompound reports whether the unit opens a definition or anonymous
// block, which the decomposer inspects even when the whole unit fits.
func isCompound(unit string) bool {
	upper := strings.ToUpper(strings.TrimSpace(unit))
	return strings.HasPrefix(upper, "CREATE") ||
		strings.HasPrefix(upper, "DECLARE") ||
		strings.HasPrefix(upper, "BEGIN")
}
