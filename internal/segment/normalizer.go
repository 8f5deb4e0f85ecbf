package segment

import "strings"

// normalize coalesces undersized adjacent fragments and re-splits anything
// that still exceeds the budget after merging.
func (s *Segmenter) normalize(frags []string) []string {
	merged := s.mergeSmall(frags)

	var out []string
	for _, b := range merged {
		if len(b) > s.opts.MaxChunkSize {
			out = append(out, bucketStatements(b, s.opts.MaxChunkSize)...)
		} else {
			out = append(out, b)
		}
	}
	return out
}

// mergeSmall buffers fragments below the small-fragment threshold and
// flushes the buffer once its combined length crosses the merge ceiling.
// A fragment at or above the threshold first flushes any pending buffer,
// then stands alone.
func (s *Segmenter) mergeSmall(frags []string) []string {
	var out []string
	var buf bucket

	for _, f := range frags {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		if len(f) < s.opts.SmallFragment {
			buf.add(f)
			if buf.over(s.opts.MergeCeiling) {
				out = append(out, buf.flush())
			}
			continue
		}
		if !buf.empty() {
			out = append(out, buf.flush())
		}
		out = append(out, f)
	}
	if !buf.empty() {
		out = append(out, buf.flush())
	}
	return out
}
