package segment

import (
	"regexp"
	"strings"
)

var beginRE = regexp.MustCompile(`(?i)\bBEGIN\b`)

// decompose breaks one oversized structural unit into smaller pieces. The
// unit is split before each inner BEGIN keyword, and any resulting segment
// still over budget falls back to statement bucketing. Depth is fixed at
// those two passes, so termination does not depend on how deeply the input
// nests. A unit that already fits the budget passes through whole.
func (s *Segmenter) decompose(unit string) []string {
	if len(unit) <= s.opts.MaxChunkSize {
		return []string{unit}
	}

	var out []string
	queue := splitBeforeBegin(unit)
	for _, seg := range queue {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		if len(seg) > s.opts.MaxChunkSize {
			out = append(out, bucketStatements(seg, s.opts.MaxChunkSize)...)
		} else {
			out = append(out, seg)
		}
	}
	return out
}

// splitBeforeBegin cuts text immediately before each BEGIN keyword, keeping
// the keyword with the segment it introduces. Text before the first BEGIN
// stays as the leading segment.
func splitBeforeBegin(text string) []string {
	locs := beginRE.FindAllStringIndex(text, -1)
	cuts := []int{0}
	for _, loc := range locs {
		if loc[0] > 0 {
			cuts = append(cuts, loc[0])
		}
	}
	cuts = append(cuts, len(text))

	var segs []string
	for i := 0; i+1 < len(cuts); i++ {
		segs = append(segs, text[cuts[i]:cuts[i+1]])
	}
	return segs
}
