package storage

import "errors"

// Common client storage errors
var (
	// ErrSnapshotNotFound кэш удаленного снимка еще не сохранялся
	ErrSnapshotNotFound = errors.New("remote snapshot not found")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")
)
