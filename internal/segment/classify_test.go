package segment

import (
	"testing"

	"sqlseg/internal/domain"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want domain.BlockType
	}{
		{"function", "CREATE OR REPLACE FUNCTION f RETURN NUMBER IS", domain.BlockFunction},
		{"function without or replace", "CREATE FUNCTION f RETURN NUMBER IS", domain.BlockFunction},
		{"procedure", "CREATE OR REPLACE PROCEDURE p IS", domain.BlockProcedure},
		{"package", "CREATE OR REPLACE PACKAGE pkg AS", domain.BlockPackage},
		{"package body", "CREATE OR REPLACE PACKAGE BODY pkg AS", domain.BlockPackage},
		{"trigger", "CREATE OR REPLACE TRIGGER trg BEFORE INSERT ON t", domain.BlockTrigger},
		{"declare", "DECLARE\n  n NUMBER;", domain.BlockAnonymous},
		{"begin", "BEGIN\n  NULL;\nEND;", domain.BlockAnonymous},
		{"update", "UPDATE t SET a = 1;", domain.BlockUpdate},
		{"insert", "INSERT INTO t VALUES (1);", domain.BlockInsert},
		{"delete", "DELETE FROM t;", domain.BlockDelete},
		{"select", "SELECT * FROM dual;", domain.BlockSelect},
		{"lowercase", "update t set a = 1;", domain.BlockUpdate},
		{"leading blank lines", "\n\n  UPDATE t SET a = 1;", domain.BlockUpdate},
		{"create table", "CREATE TABLE t (id NUMBER);", domain.BlockOther},
		{"grant", "GRANT SELECT ON t TO app;", domain.BlockOther},
		{"empty", "", domain.BlockOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.in); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestClassifyDeterministic(t *testing.T) {
	in := "CREATE OR REPLACE PROCEDURE p IS BEGIN NULL; END;"
	first := Classify(in)
	for i := 0; i < 10; i++ {
		if got := Classify(in); got != first {
			t.Fatalf("classification changed between calls: %s vs %s", first, got)
		}
	}
}
