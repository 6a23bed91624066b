package storage

import (
	"context"
	"time"

	"github.com/iudanet/cardsync/pkg/api"
)

// Snapshot последний загруженный с сервера набор контактов и групп
type Snapshot struct {
	FetchedAt time.Time     `json:"fetched_at"`
	SyncToken string        `json:"sync_token"`
	Contacts  []api.Contact `json:"contacts"`
	Groups    []api.Group   `json:"groups"`
}

//go:generate moq -out snapshot_mock.go . SnapshotStorage

// SnapshotStorage кэш удаленного снимка для pull --cached
type SnapshotStorage interface {
	// SaveSnapshot заменяет сохраненный снимок
	SaveSnapshot(ctx context.Context, snapshot *Snapshot) error

	// GetSnapshot returns ErrSnapshotNotFound if nothing was cached yet
	GetSnapshot(ctx context.Context) (*Snapshot, error)
}
