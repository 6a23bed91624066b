package storage

import (
	"context"

	"github.com/iudanet/cardsync/pkg/api"
)

// Collection состояние коллекции контактов аккаунта
type Collection struct {
	Contacts []api.Contact
	Groups   []api.Group
	Counter  int64
}

// ContactStorage defines interface for contact cards and groups.
// Every mutation bumps the collection counter and stamps the
// changed records with etag "C=<counter>".
type ContactStorage interface {
	// GetCollection returns all cards and groups of the account with the current counter
	GetCollection(ctx context.Context, appleID string) (*Collection, error)

	// SaveContacts creates (update=false) or updates (update=true) cards in one transaction
	// Returns the new counter and the stored cards
	SaveContacts(ctx context.Context, appleID string, contacts []api.Contact, update bool) (int64, []api.Contact, error)

	// SaveGroups creates or updates groups in one transaction
	SaveGroups(ctx context.Context, appleID string, groups []api.Group, update bool) (int64, []api.Group, error)
}
