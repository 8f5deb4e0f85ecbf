package segment

import (
	"strings"
	"testing"
)

func TestExtractSingleStatement(t *testing.T) {
	units := extract("UPDATE t SET x = 1;")
	if len(units) != 1 || units[0] != "UPDATE t SET x = 1;" {
		t.Fatalf("unexpected units: %#v", units)
	}
}

func TestExtractDefinitionThroughEnd(t *testing.T) {
	units := extract(sampleScript)

	if len(units) < 3 {
		t.Fatalf("expected at least 3 units, got %d: %#v", len(units), units)
	}
	if !strings.HasPrefix(units[0], "CREATE OR REPLACE PROCEDURE") || !strings.HasSuffix(units[0], "END;") {
		t.Errorf("procedure not extracted as one unit: %q", units[0])
	}
	last := units[len(units)-1]
	if !strings.HasPrefix(last, "CREATE OR REPLACE FUNCTION") {
		t.Errorf("function definition mid-script not recognized: %q", last)
	}
}

func TestExtractNonGreedyEnd(t *testing.T) {
	script := "BEGIN NULL; END;\nBEGIN RETURN; END;"
	units := extract(script)

	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d: %#v", len(units), units)
	}
	if units[0] != "BEGIN NULL; END;" {
		t.Errorf("first block swallowed its sibling: %q", units[0])
	}
}

func TestExtractDiscardsSeparator(t *testing.T) {
	units := extract("BEGIN NULL; END;\n/\nUPDATE t SET x = 1;\n/\n")

	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d: %#v", len(units), units)
	}
	for _, u := range units {
		if strings.Contains(u, "/") {
			t.Errorf("separator leaked into unit: %q", u)
		}
	}
}

func TestExtractTrailingRemainder(t *testing.T) {
	units := extract("UPDATE t SET x = 1;\nCOMMIT")

	if len(units) != 2 {
		t.Fatalf("expected 2 units, got %d: %#v", len(units), units)
	}
	if units[1] != "COMMIT" {
		t.Errorf("trailing text lost: %#v", units)
	}
}

func TestExtractDeclareBlock(t *testing.T) {
	script := "DECLARE\n  n NUMBER;\nBEGIN\n  n := 1;\nEND;"
	units := extract(script)

	if len(units) != 1 {
		t.Fatalf("expected 1 unit, got %d: %#v", len(units), units)
	}
	if units[0] != script {
		t.Errorf("DECLARE block altered: %q", units[0])
	}
}

func TestExtractTotalCoverage(t *testing.T) {
	units := extract(sampleScript)

	stripped := func(s string) string {
		for _, c := range []string{" ", "\t", "\n", "\r", "/"} {
			s = strings.ReplaceAll(s, c, "")
		}
		return s
	}

	if stripped(strings.Join(units, "")) != stripped(sampleScript) {
		t.Error("concatenated units do not reconstruct the script modulo whitespace and separators")
	}
}

func TestExtractEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   \n\n", "/\n"} {
		if units := extract(in); len(units) != 0 {
			t.Errorf("extract(%q) = %#v, want none", in, units)
		}
	}
}
