package segment

import (
	"strings"

	"sqlseg/internal/domain"
)

// Classify tags a block from its first non-blank line. It is pure and
// total: every input maps to exactly one BlockType, unknown leads fall
// through to OTHER.
func Classify(text string) domain.BlockType {
	var header string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			header = strings.ToUpper(line)
			break
		}
	}

	if rest, ok := strings.CutPrefix(header, "CREATE "); ok {
		rest = strings.TrimPrefix(rest, "OR REPLACE ")
		rest = strings.TrimSpace(rest)
		switch {
		case strings.HasPrefix(rest, "FUNCTION"):
			return domain.BlockFunction
		case strings.HasPrefix(rest, "PROCEDURE"):
			return domain.BlockProcedure
		case strings.HasPrefix(rest, "PACKAGE"):
			return domain.BlockPackage
		case strings.HasPrefix(rest, "TRIGGER"):
			return domain.BlockTrigger
		}
		return domain.BlockOther
	}

	switch {
	case strings.HasPrefix(header, "DECLARE"), strings.HasPrefix(header, "BEGIN"):
		return domain.BlockAnonymous
	case strings.HasPrefix(header, "UPDATE"):
		return domain.BlockUpdate
	case strings.HasPrefix(header, "INSERT"):
		return domain.BlockInsert
	case strings.HasPrefix(header, "DELETE"):
		return domain.BlockDelete
	case strings.HasPrefix(header, "SELECT"):
		return domain.BlockSelect
	}
	return domain.BlockOther
}
