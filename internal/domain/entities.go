package domain

import (
	"strings"
	"time"
)

// BlockType is the coarse category of a segmented block, derived from its
// first non-blank line.
type BlockType string

const (
	BlockFunction  BlockType = "FUNCTION"
	BlockProcedure BlockType = "PROCEDURE"
	BlockPackage   BlockType = "PACKAGE"
	BlockTrigger   BlockType = "TRIGGER"
	BlockAnonymous BlockType = "ANONYMOUS_BLOCK"
	BlockUpdate    BlockType = "UPDATE"
	BlockInsert    BlockType = "INSERT"
	BlockDelete    BlockType = "DELETE"
	BlockSelect    BlockType = "SELECT"
	BlockOther     BlockType = "OTHER"
)

// Block is one segmented unit of a script, sized near the chunk budget.
type Block struct {
	Seq   int       `json:"seq"` // 1-based position within the run
	Text  string    `json:"text"`
	Type  BlockType `json:"type"`
	Chars int       `json:"chars"`
	Lines int       `json:"lines"`
}

// FirstLine returns the block's first line, trimmed and truncated to max
// characters, for stats tables and exports.
func (b Block) FirstLine(max int) string {
	line := b.Text
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if max > 0 && len(line) > max {
		line = line[:max]
	}
	return line
}

// Run is one segmentation invocation persisted for audit.
type Run struct {
	ID         string    `json:"id"`
	Source     string    `json:"source"` // file path or "-" for stdin
	Budget     int       `json:"budget"`
	BlockCount int       `json:"block_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversionRecord is the outcome of translating one block.
type ConversionRecord struct {
	Seq          int    `json:"seq"`
	OK           bool   `json:"ok"`
	Input        string `json:"input"`
	Output       string `json:"output"`
	Reason       string `json:"reason,omitempty"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
	TotalTokens  int    `json:"total_tokens"`
}

// ConversionResult aggregates a full conversion pass over a run.
type ConversionResult struct {
	Records     []ConversionRecord
	Converted   int
	Failed      int
	Model       string
	WholeScript string // optional whole-script alternative output
}
