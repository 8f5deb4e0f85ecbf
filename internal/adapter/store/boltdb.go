// Package store persists segmentation runs and conversion outcomes in a
// local bbolt database.
package store

import (
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"sqlseg/internal/domain"
)

var (
	bucketRuns        = []byte("runs")
	bucketBlocks      = []byte("blocks")
	bucketConversions = []byte("conversions")
)

type BoltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, b := range [][]byte{bucketRuns, bucketBlocks, bucketConversions} {
			if _, err := tx.CreateBucketIfNotExists(b); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", b, err)
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

type runMeta struct {
	Source     string `json:"source"`
	Budget     int    `json:"budget"`
	BlockCount int    `json:"block_count"`
	CreatedAt  int64  `json:"created_at"`
}

func (s *BoltStore) PutRun(run domain.Run) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		meta := runMeta{
			Source:     run.Source,
			Budget:     run.Budget,
			BlockCount: run.BlockCount,
			CreatedAt:  run.CreatedAt.Unix(),
		}
		data, err := json.Marshal(meta)
		if err != nil {
			return err
		}
		return tx.Bucket(bucketRuns).Put([]byte(run.ID), data)
	})
}

func (s *BoltStore) GetRun(id string) (domain.Run, error) {
	var run domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRuns).Get([]byte(id))
		if data == nil {
			return fmt.Errorf("run not found: %s", id)
		}
		var meta runMeta
		if err := json.Unmarshal(data, &meta); err != nil {
			return err
		}
		run = domain.Run{
			ID:         id,
			Source:     meta.Source,
			Budget:     meta.Budget,
			BlockCount: meta.BlockCount,
			CreatedAt:  time.Unix(meta.CreatedAt, 0),
		}
		return nil
	})
	return run, err
}

func (s *BoltStore) ListRuns() ([]domain.Run, error) {
	var runs []domain.Run
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRuns).ForEach(func(k, v []byte) error {
			var meta runMeta
			if err := json.Unmarshal(v, &meta); err != nil {
				return err
			}
			runs = append(runs, domain.Run{
				ID:         string(k),
				Source:     meta.Source,
				Budget:     meta.Budget,
				BlockCount: meta.BlockCount,
				CreatedAt:  time.Unix(meta.CreatedAt, 0),
			})
			return nil
		})
	})
	return runs, err
}

func (s *BoltStore) PutBlocks(runID string, blocks []domain.Block) error {
	return s.putJSON(bucketBlocks, runID, blocks)
}

func (s *BoltStore) GetBlocks(runID string) ([]domain.Block, error) {
	var blocks []domain.Block
	err := s.getJSON(bucketBlocks, runID, &blocks)
	return blocks, err
}

func (s *BoltStore) PutConversions(runID string, records []domain.ConversionRecord) error {
	return s.putJSON(bucketConversions, runID, records)
}

func (s *BoltStore) GetConversions(runID string) ([]domain.ConversionRecord, error) {
	var records []domain.ConversionRecord
	err := s.getJSON(bucketConversions, runID, &records)
	return records, err
}

func (s *BoltStore) putJSON(bucket []byte, key string, v any) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *BoltStore) getJSON(bucket []byte, key string, v any) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucket).Get([]byte(key))
		if data == nil {
			return fmt.Errorf("no entry for run: %s", key)
		}
		return json.Unmarshal(data, v)
	})
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}
