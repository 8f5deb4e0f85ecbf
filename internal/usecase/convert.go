package usecase

import (
	"context"
	"fmt"

	"sqlseg/internal/domain"
	"sqlseg/internal/port"
)

// ConvertUseCase translates segmented blocks through a converter, one call
// per block, and records the outcomes.
type ConvertUseCase struct {
	converter port.Converter
	store     port.AuditStore
}

func NewConvertUseCase(converter port.Converter, store port.AuditStore) *ConvertUseCase {
	return &ConvertUseCase{
		converter: converter,
		store:     store,
	}
}

// ConvertBlocks converts each block in order. A failed call is retried
// once; a block that still fails is recorded with its reason and a
// commented error placeholder instead of aborting the pass.
func (u *ConvertUseCase) ConvertBlocks(ctx context.Context, runID string, blocks []domain.Block, progress ProgressFunc) (*domain.ConversionResult, error) {
	result := &domain.ConversionResult{
		Model: u.converter.ModelName(),
	}

	for i, b := range blocks {
		if progress != nil {
			progress(i, len(blocks), b.FirstLine(40))
		}

		out, usage, err := u.converter.Convert(ctx, b)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			out, usage, err = u.converter.Convert(ctx, b)
		}

		rec := domain.ConversionRecord{
			Seq:          b.Seq,
			Input:        b.Text,
			InputTokens:  usage.InputTokens,
			OutputTokens: usage.OutputTokens,
			TotalTokens:  usage.Total(),
		}
		if err != nil {
			rec.OK = false
			rec.Reason = err.Error()
			rec.Output = fmt.Sprintf("# LLM ERROR: %v", err)
			result.Failed++
		} else {
			rec.OK = true
			rec.Output = out
			result.Converted++
		}
		result.Records = append(result.Records, rec)
	}
	if progress != nil {
		progress(len(blocks), len(blocks), "")
	}

	if u.store != nil {
		if err := u.store.PutConversions(runID, result.Records); err != nil {
			return result, fmt.Errorf("failed to record conversions: %w", err)
		}
	}
	return result, nil
}

// ConvertWhole translates the original unsegmented script in one call,
// producing the unified alternative output.
func (u *ConvertUseCase) ConvertWhole(ctx context.Context, script string) (string, error) {
	out, _, err := u.converter.ConvertScript(ctx, script)
	if err != nil {
		return "", fmt.Errorf("whole-script conversion failed: %w", err)
	}
	return out, nil
}
