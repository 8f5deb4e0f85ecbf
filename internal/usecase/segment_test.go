package usecase

import (
	"os"
	"path/filepath"
	"testing"

	"sqlseg/internal/adapter/fs"
	"sqlseg/internal/adapter/store"
	"sqlseg/internal/segment"
)

func newTestStore(t *testing.T) *store.BoltStore {
	t.Helper()
	st, err := store.NewBoltStore(filepath.Join(t.TempDir(), "audit.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSegmentScriptPersistsRun(t *testing.T) {
	st := newTestStore(t)
	uc := NewSegmentUseCase(st, fs.NewWalker(nil, nil), segment.New(segment.Options{}))

	res, err := uc.SegmentScript("migration.sql", "UPDATE t SET a=1;\nDELETE FROM t;")
	if err != nil {
		t.Fatal(err)
	}

	if res.RunID == "" {
		t.Fatal("expected a run ID")
	}
	if len(res.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(res.Blocks))
	}

	run, err := st.GetRun(res.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if run.Source != "migration.sql" || run.BlockCount != 1 {
		t.Errorf("run not persisted correctly: %+v", run)
	}

	blocks, err := st.GetBlocks(res.RunID)
	if err != nil {
		t.Fatal(err)
	}
	if len(blocks) != 1 || blocks[0].Text != res.Blocks[0].Text {
		t.Errorf("blocks not persisted correctly: %+v", blocks)
	}
}

func TestSegmentTree(t *testing.T) {
	tmp := t.TempDir()
	for name, content := range map[string]string{
		"a.sql": "UPDATE t SET a=1;",
		"b.sql": "BEGIN NULL; END;",
		"c.txt": "not a script",
	} {
		if err := os.WriteFile(filepath.Join(tmp, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	st := newTestStore(t)
	uc := NewSegmentUseCase(st, fs.NewWalker([]string{"**/*.sql"}, nil), segment.New(segment.Options{}))

	var calls int
	results, err := uc.SegmentTree(tmp, func(processed, total int, current string) {
		calls++
		if total != 2 {
			t.Errorf("expected total=2, got %d", total)
		}
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if calls == 0 {
		t.Error("progress callback never invoked")
	}

	runs, err := st.ListRuns()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 persisted runs, got %d", len(runs))
	}
}

func TestRunIDsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		id := newRunID("same.sql")
		if seen[id] {
			t.Fatalf("duplicate run ID: %s", id)
		}
		seen[id] = true
	}
}
