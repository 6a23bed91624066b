package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/iudanet/cardsync/internal/client/storage"
)

var snapshotKey = []byte("current")

// SaveSnapshot заменяет сохраненный снимок
func (s *Storage) SaveSnapshot(ctx context.Context, snapshot *storage.Snapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return s.update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshot)
		if bucket == nil {
			return fmt.Errorf("snapshot bucket not found")
		}

		if err := bucket.Put(snapshotKey, data); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
		return nil
	})
}

// GetSnapshot возвращает сохраненный снимок или storage.ErrSnapshotNotFound
func (s *Storage) GetSnapshot(ctx context.Context) (*storage.Snapshot, error) {
	var snapshot *storage.Snapshot

	err := s.view(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketSnapshot)
		if bucket == nil {
			return fmt.Errorf("snapshot bucket not found")
		}

		data := bucket.Get(snapshotKey)
		if data == nil {
			return storage.ErrSnapshotNotFound
		}

		// data валидна только внутри транзакции, Unmarshal копирует
		snapshot = &storage.Snapshot{}
		if err := json.Unmarshal(data, snapshot); err != nil {
			return fmt.Errorf("failed to unmarshal snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snapshot, nil
}
