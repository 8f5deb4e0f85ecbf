// Package export writes block tables and conversion mappings as CSV for
// audit and offline review.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"sqlseg/internal/domain"
)

// WriteBlocks writes one row per block: position, type, line and character
// counts, a first-line preview, and the block text.
func WriteBlocks(w io.Writer, blocks []domain.Block) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"Block #", "Type", "Lines", "Chars", "First Line", "PL/SQL Block"}); err != nil {
		return err
	}
	for _, b := range blocks {
		row := []string{
			fmt.Sprintf("%d", b.Seq),
			string(b.Type),
			fmt.Sprintf("%d", b.Lines),
			fmt.Sprintf("%d", b.Chars),
			b.FirstLine(80),
			b.Text,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMapping writes the per-block conversion mapping, pairing each source
// block with its converted output and token counts. Blocks and records are
// matched by position; a block without a record gets empty outcome columns.
func WriteMapping(w io.Writer, blocks []domain.Block, records []domain.ConversionRecord) error {
	cw := csv.NewWriter(w)

	header := []string{"Block #", "Type", "Success", "Reason", "PL/SQL Block", "Converted", "Input Tokens", "Output Tokens", "Total Tokens"}
	if err := cw.Write(header); err != nil {
		return err
	}

	bySeq := make(map[int]domain.ConversionRecord, len(records))
	for _, r := range records {
		bySeq[r.Seq] = r
	}

	for _, b := range blocks {
		r, ok := bySeq[b.Seq]
		row := []string{
			fmt.Sprintf("%d", b.Seq),
			string(b.Type),
			"",
			"",
			b.Text,
			"",
			"0",
			"0",
			"0",
		}
		if ok {
			row[2] = fmt.Sprintf("%v", r.OK)
			row[3] = r.Reason
			row[5] = r.Output
			row[6] = fmt.Sprintf("%d", r.InputTokens)
			row[7] = fmt.Sprintf("%d", r.OutputTokens)
			row[8] = fmt.Sprintf("%d", r.TotalTokens)
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
