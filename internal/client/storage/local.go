package storage

import (
	"context"

	"github.com/iudanet/cardsync/internal/models"
)

//go:generate moq -out local_mock.go . LocalStore

// LocalStore локальный файл контактов
type LocalStore interface {
	// Load returns an empty set when the file does not exist yet
	Load(ctx context.Context) ([]models.Contact, error)

	// Save перезаписывает файл целиком
	Save(ctx context.Context, contacts []models.Contact) error
}
