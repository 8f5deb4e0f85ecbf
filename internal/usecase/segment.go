package usecase

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"sqlseg/internal/adapter/fs"
	"sqlseg/internal/domain"
	"sqlseg/internal/port"
	"sqlseg/internal/segment"
)

// ProgressFunc reports progress as items complete.
type ProgressFunc func(processed, total int, current string)

// SegmentUseCase segments script files and records each run for audit.
type SegmentUseCase struct {
	store  port.AuditStore
	walker *fs.Walker
	seg    *segment.Segmenter
}

func NewSegmentUseCase(store port.AuditStore, walker *fs.Walker, seg *segment.Segmenter) *SegmentUseCase {
	return &SegmentUseCase{
		store:  store,
		walker: walker,
		seg:    seg,
	}
}

// FileResult is the segmentation outcome for one script.
type FileResult struct {
	Source string
	RunID  string
	Blocks []domain.Block
}

// SegmentScript segments one script held in memory and persists the run.
func (u *SegmentUseCase) SegmentScript(source, script string) (FileResult, error) {
	blocks := u.seg.Segment(script)

	run := domain.Run{
		ID:         newRunID(source),
		Source:     source,
		Budget:     u.seg.Budget(),
		BlockCount: len(blocks),
		CreatedAt:  time.Now(),
	}
	if u.store != nil {
		if err := u.store.PutRun(run); err != nil {
			return FileResult{}, fmt.Errorf("failed to record run: %w", err)
		}
		if err := u.store.PutBlocks(run.ID, blocks); err != nil {
			return FileResult{}, fmt.Errorf("failed to record blocks: %w", err)
		}
	}

	return FileResult{Source: source, RunID: run.ID, Blocks: blocks}, nil
}

// SegmentTree walks root for script files and segments each one.
func (u *SegmentUseCase) SegmentTree(root string, progress ProgressFunc) ([]FileResult, error) {
	files, err := u.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	var results []FileResult
	for i, path := range files {
		if progress != nil {
			progress(i, len(files), path)
		}
		script, err := fs.ReadScript(path, nil)
		if err != nil {
			return results, fmt.Errorf("failed to read %s: %w", path, err)
		}
		res, err := u.SegmentScript(path, script)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	if progress != nil {
		progress(len(files), len(files), "")
	}
	return results, nil
}

func newRunID(source string) string {
	data := fmt.Sprintf("%s:%d", source, time.Now().UnixNano())
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}
