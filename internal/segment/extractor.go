package segment

import (
	"regexp"
	"strings"
)

// unitRE matches one maximal top-level construct: a definition through its
// terminating END;, a DECLARE..END; or BEGIN..END; span, or a minimal run
// of text up to the next statement terminator. The END match is non-greedy
// so sibling constructs are not swallowed.
var unitRE = regexp.MustCompile(`(?is)` +
	`CREATE\s+(?:OR\s+REPLACE\s+)?(?:FUNCTION|PROCEDURE|PACKAGE|TRIGGER).*?END\s*;` +
	`|DECLARE\b.*?END\s*;` +
	`|BEGIN\b.*?END\s*;` +
	`|[^;]+;`)

// extract splits script into top-level structural units, left to right.
// Line endings are normalized first. Whitespace between units and stray
// script separators (a lone "/") are discarded. Text after the last
// terminator is kept as a final unit so no content is lost. extract never
// fails: anything not matching a block pattern falls through to the
// terminator rule.
func extract(script string) []string {
	code := strings.ReplaceAll(script, "\r\n", "\n")
	code = strings.ReplaceAll(code, "\r", "\n")

	var units []string
	emit := func(u string) {
		u = trimSeparators(u)
		if u != "" {
			units = append(units, u)
		}
	}

	for len(code) > 0 {
		code = skipSeparators(code)
		if code == "" {
			break
		}
		loc := unitRE.FindStringIndex(code)
		if loc == nil {
			// trailing text with no terminator
			emit(code)
			break
		}
		if loc[0] > 0 {
			// unmatched gap (e.g. a bare terminator run); keep any content
			emit(code[:loc[0]])
		}
		emit(code[loc[0]:loc[1]])
		code = code[loc[1]:]
	}
	return units
}

// skipSeparators advances past leading whitespace and lone "/" lines.
func skipSeparators(s string) string {
	for {
		s = strings.TrimLeft(s, " \t\n")
		if s == "/" {
			return ""
		}
		if strings.HasPrefix(s, "/\n") {
			s = s[2:]
			continue
		}
		return s
	}
}

// trimSeparators strips surrounding whitespace and any leading or trailing
// lone "/" line left inside a matched span.
func trimSeparators(u string) string {
	u = strings.TrimSpace(u)
	for strings.HasPrefix(u, "/\n") {
		u = strings.TrimSpace(u[2:])
	}
	for strings.HasSuffix(u, "\n/") {
		u = strings.TrimSpace(u[:len(u)-2])
	}
	if u == "/" {
		return ""
	}
	return u
}
