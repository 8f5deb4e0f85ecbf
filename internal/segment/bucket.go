package segment

import "strings"

// bucket accumulates fragments and their running joined length until the
// caller decides to flush. Shared by the decomposer's statement bucketing
// and the normalizer's merge pass.
type bucket struct {
	pieces []string
	length int
}

func (b *bucket) add(s string) {
	if len(b.pieces) > 0 {
		b.length++ // newline joiner
	}
	b.pieces = append(b.pieces, s)
	b.length += len(s)
}

func (b *bucket) empty() bool {
	return len(b.pieces) == 0
}

// fits reports whether adding s would keep the joined length within limit.
func (b *bucket) fits(s string, limit int) bool {
	projected := b.length + len(s)
	if len(b.pieces) > 0 {
		projected++
	}
	return projected <= limit
}

// over reports whether the running length has crossed limit.
func (b *bucket) over(limit int) bool {
	return b.length > limit
}

// flush joins the pending pieces into one fragment and resets the bucket.
func (b *bucket) flush() string {
	s := strings.TrimSpace(strings.Join(b.pieces, "\n"))
	b.pieces = b.pieces[:0]
	b.length = 0
	return s
}

// bucketStatements re-splits text at statement boundaries. A bucket closes
// before a statement that would push it over budget, so every output
// fragment fits the budget unless it is a single statement that alone
// exceeds it; that irreducible case is emitted whole.
func bucketStatements(text string, budget int) []string {
	var out []string
	var b bucket
	for _, stmt := range splitStatements(text) {
		if !b.empty() && !b.fits(stmt, budget) {
			out = append(out, b.flush())
		}
		b.add(stmt)
		if b.over(budget) {
			out = append(out, b.flush())
		}
	}
	if !b.empty() {
		out = append(out, b.flush())
	}
	return out
}
