package segment

import "strings"

// commentOnly reports whether every line of text is blank or a -- line
// comment. Inline comment markers mid-line do not count; only fragments
// with no executable content at all are comment-only.
func commentOnly(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		t := strings.TrimSpace(line)
		if t != "" && !strings.HasPrefix(t, "--") {
			return false
		}
	}
	return true
}

// dropCommentOnly removes blank and comment-only fragments, preserving
// order of the rest.
func dropCommentOnly(frags []string) []string {
	var out []string
	for _, f := range frags {
		if strings.TrimSpace(f) == "" || commentOnly(f) {
			continue
		}
		out = append(out, f)
	}
	return out
}
