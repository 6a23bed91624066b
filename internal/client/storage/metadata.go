package storage

import "context"

//go:generate moq -out metadata_mock.go . MetadataStorage

// MetadataStorage defines interface for storing client metadata
type MetadataStorage interface {
	// SaveLastSyncTimestamp saves the timestamp of the last successful sync
	SaveLastSyncTimestamp(ctx context.Context, timestamp int64) error

	// GetLastSyncTimestamp retrieves the timestamp of the last successful sync
	// Returns 0 if no sync has been performed yet
	GetLastSyncTimestamp(ctx context.Context) (int64, error)

	// SaveLastSyncToken сохраняет курсор сервера после синхронизации
	SaveLastSyncToken(ctx context.Context, token string) error

	// GetLastSyncToken возвращает пустую строку, если синхронизации не было
	GetLastSyncToken(ctx context.Context) (string, error)
}
