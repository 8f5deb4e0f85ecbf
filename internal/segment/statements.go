package segment

import "strings"

// splitStatements splits text into individual statements at top-level
// semicolons. Terminators inside quoted strings, -- line comments, and
// /* */ block comments do not split. Each statement keeps its terminator;
// trailing text without one becomes a final statement as-is. Blank
// statements are dropped.
func splitStatements(text string) []string {
	var stmts []string
	var cur strings.Builder

	inString := false
	stringChar := byte(0)
	inLineComment := false
	inBlockComment := false

	flush := func() {
		s := strings.TrimSpace(cur.String())
		cur.Reset()
		if s != "" && s != ";" {
			stmts = append(stmts, s)
		}
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		switch {
		case inLineComment:
			cur.WriteByte(c)
			if c == '\n' {
				inLineComment = false
			}
			continue
		case inBlockComment:
			cur.WriteByte(c)
			if c == '*' && i+1 < len(text) && text[i+1] == '/' {
				cur.WriteByte('/')
				i++
				inBlockComment = false
			}
			continue
		case inString:
			cur.WriteByte(c)
			if c == stringChar {
				// doubled quote escapes itself
				if i+1 < len(text) && text[i+1] == stringChar {
					cur.WriteByte(stringChar)
					i++
				} else {
					inString = false
				}
			}
			continue
		}

		switch {
		case c == '\'' || c == '"':
			inString = true
			stringChar = c
			cur.WriteByte(c)
		case c == '-' && i+1 < len(text) && text[i+1] == '-':
			inLineComment = true
			cur.WriteByte(c)
		case c == '/' && i+1 < len(text) && text[i+1] == '*':
			inBlockComment = true
			cur.WriteByte(c)
		case c == ';':
			cur.WriteByte(c)
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()

	return stmts
}
