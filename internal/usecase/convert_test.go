package usecase

import (
	"context"
	"strings"
	"testing"

	"sqlseg/internal/adapter/llm"
	"sqlseg/internal/domain"
)

func TestConvertBlocks(t *testing.T) {
	st := newTestStore(t)
	uc := NewConvertUseCase(llm.NewMockConverter(), st)

	blocks := []domain.Block{
		{Seq: 1, Text: "UPDATE t SET a=1;", Type: domain.BlockUpdate},
		{Seq: 2, Text: "DELETE FROM t;", Type: domain.BlockDelete},
	}

	result, err := uc.ConvertBlocks(context.Background(), "run1", blocks, nil)
	if err != nil {
		t.Fatal(err)
	}

	if result.Converted != 2 || result.Failed != 0 {
		t.Errorf("expected 2 conversions, got converted=%d failed=%d", result.Converted, result.Failed)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Records))
	}
	if result.Records[0].Seq != 1 || !result.Records[0].OK {
		t.Errorf("unexpected first record: %+v", result.Records[0])
	}
	if result.Model != "mock" {
		t.Errorf("expected model=mock, got %s", result.Model)
	}

	stored, err := st.GetConversions("run1")
	if err != nil {
		t.Fatal(err)
	}
	if len(stored) != 2 {
		t.Errorf("conversions not persisted: %d", len(stored))
	}
}

func TestConvertBlocksRecordsFailures(t *testing.T) {
	mock := llm.NewMockConverter()
	mock.FailSeqs = map[int]bool{2: true}
	uc := NewConvertUseCase(mock, nil)

	blocks := []domain.Block{
		{Seq: 1, Text: "UPDATE t SET a=1;"},
		{Seq: 2, Text: "DELETE FROM t;"},
		{Seq: 3, Text: "SELECT 1;"},
	}

	result, err := uc.ConvertBlocks(context.Background(), "run1", blocks, nil)
	if err != nil {
		t.Fatal(err)
	}

	if result.Converted != 2 || result.Failed != 1 {
		t.Errorf("expected converted=2 failed=1, got %d/%d", result.Converted, result.Failed)
	}

	failed := result.Records[1]
	if failed.OK {
		t.Error("expected record 2 to fail")
	}
	if !strings.HasPrefix(failed.Output, "# LLM ERROR:") {
		t.Errorf("failed record should carry error placeholder, got %q", failed.Output)
	}
	if failed.Reason == "" {
		t.Error("failed record missing reason")
	}
	// a failure mid-pass must not stop later blocks
	if !result.Records[2].OK {
		t.Error("block after failure was not converted")
	}
}

func TestConvertBlocksProgress(t *testing.T) {
	uc := NewConvertUseCase(llm.NewMockConverter(), nil)

	blocks := []domain.Block{{Seq: 1, Text: "SELECT 1;"}}

	var last int
	_, err := uc.ConvertBlocks(context.Background(), "run1", blocks, func(processed, total int, current string) {
		last = processed
		if total != 1 {
			t.Errorf("expected total=1, got %d", total)
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	if last != 1 {
		t.Errorf("expected final progress call with processed=1, got %d", last)
	}
}

func TestConvertWhole(t *testing.T) {
	uc := NewConvertUseCase(llm.NewMockConverter(), nil)

	out, err := uc.ConvertWhole(context.Background(), "UPDATE t SET a=1;")
	if err != nil {
		t.Fatal(err)
	}
	if out == "" {
		t.Error("expected whole-script output")
	}
}
