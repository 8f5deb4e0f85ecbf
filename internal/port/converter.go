package port

import (
	"context"

	"sqlseg/internal/domain"
)

// Usage reports token consumption for one model call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Total returns the combined token count.
func (u Usage) Total() int {
	return u.InputTokens + u.OutputTokens
}

// Converter translates segmented SQL blocks through a language model.
type Converter interface {
	// Convert translates one block.
	Convert(ctx context.Context, block domain.Block) (string, Usage, error)

	// ConvertScript translates the whole unsegmented script in a single
	// call, producing a unified alternative output.
	ConvertScript(ctx context.Context, script string) (string, Usage, error)

	// Validate checks the configured credentials with a minimal call.
	Validate(ctx context.Context) error

	// ModelName returns the name of the model.
	ModelName() string
}
