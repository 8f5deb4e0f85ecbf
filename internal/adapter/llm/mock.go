package llm

import (
	"context"
	"fmt"
	"strings"

	"sqlseg/internal/domain"
	"sqlseg/internal/port"
)

// MockConverter is a deterministic converter for dry runs and tests. It
// returns the input commented out instead of calling a model.
type MockConverter struct {
	FailSeqs map[int]bool // block seqs that should report an error
}

func NewMockConverter() *MockConverter {
	return &MockConverter{}
}

func (c *MockConverter) Convert(_ context.Context, block domain.Block) (string, port.Usage, error) {
	if c.FailSeqs[block.Seq] {
		return "", port.Usage{}, fmt.Errorf("mock failure for block %d", block.Seq)
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# mock conversion of block %d (%s)\n", block.Seq, block.Type))
	for _, line := range strings.Split(block.Text, "\n") {
		sb.WriteString("# " + line + "\n")
	}
	usage := port.Usage{InputTokens: len(block.Text) / 4, OutputTokens: len(block.Text) / 4}
	return sb.String(), usage, nil
}

func (c *MockConverter) ConvertScript(_ context.Context, script string) (string, port.Usage, error) {
	return "# mock whole-script conversion\n", port.Usage{InputTokens: len(script) / 4, OutputTokens: 8}, nil
}

func (c *MockConverter) Validate(context.Context) error {
	return nil
}

func (c *MockConverter) ModelName() string {
	return "mock"
}
