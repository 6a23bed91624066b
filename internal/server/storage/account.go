package storage

import (
	"context"
	"time"
)

// Account аккаунт удаленного сервиса.
// Пароль не хранится: только соль и SRP верификатор.
type Account struct {
	CreatedAt  time.Time
	AppleID    string
	DSID       string
	FullName   string
	Protocol   string
	Salt       []byte
	Verifier   []byte
	Iterations int
}

// Session сессия входа, ожидающая или прошедшая второй фактор
type Session struct {
	CreatedAt time.Time
	ID        string
	AppleID   string
	Verified  bool
}

// AccountStorage defines interface for account persistence
type AccountStorage interface {
	// CreateAccount stores a new account
	// Returns ErrAccountAlreadyExists if apple id is taken
	CreateAccount(ctx context.Context, account *Account) error

	// GetAccount retrieves account by apple id
	// Returns ErrAccountNotFound if account doesn't exist
	GetAccount(ctx context.Context, appleID string) (*Account, error)
}

// SessionStorage defines interface for sign-in sessions and trust tokens
type SessionStorage interface {
	// CreateSession stores a new sign-in session
	CreateSession(ctx context.Context, session *Session) error

	// GetSession retrieves session by id
	// Returns ErrSessionNotFound if session doesn't exist
	GetSession(ctx context.Context, id string) (*Session, error)

	// MarkSessionVerified records that the second factor was passed
	MarkSessionVerified(ctx context.Context, id string) error

	// SaveTrustToken stores hash of a trust token issued for the account
	SaveTrustToken(ctx context.Context, appleID, tokenHash string, expiresAt time.Time) error

	// HasTrustToken reports whether any of the hashes is a live trust token of the account
	HasTrustToken(ctx context.Context, appleID string, tokenHashes []string) (bool, error)

	// DeleteExpired removes expired trust tokens and sessions older than the cutoff
	DeleteExpired(ctx context.Context, sessionsBefore time.Time) (int, error)
}
