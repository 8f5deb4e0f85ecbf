package port

import "sqlseg/internal/domain"

// AuditStore persists segmentation runs, their blocks, and conversion
// outcomes for later inspection and export.
type AuditStore interface {
	PutRun(run domain.Run) error

	GetRun(id string) (domain.Run, error)

	ListRuns() ([]domain.Run, error)

	PutBlocks(runID string, blocks []domain.Block) error

	GetBlocks(runID string) ([]domain.Block, error)

	PutConversions(runID string, records []domain.ConversionRecord) error

	GetConversions(runID string) ([]domain.ConversionRecord, error)

	Close() error
}
