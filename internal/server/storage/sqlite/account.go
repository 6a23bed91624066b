package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iudanet/cardsync/internal/server/storage"
)

// CreateAccount creates a new account in the storage
func (s *Storage) CreateAccount(ctx context.Context, account *storage.Account) error {
	query := `
		INSERT INTO accounts (apple_id, dsid, full_name, salt, verifier, iterations, protocol, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		account.AppleID,
		account.DSID,
		account.FullName,
		account.Salt,
		account.Verifier,
		account.Iterations,
		account.Protocol,
		account.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: accounts.apple_id") {
			return storage.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	return nil
}

// GetAccount retrieves account by apple id
func (s *Storage) GetAccount(ctx context.Context, appleID string) (*storage.Account, error) {
	query := `
		SELECT apple_id, dsid, full_name, salt, verifier, iterations, protocol, created_at
		FROM accounts
		WHERE apple_id = ?
	`

	account := &storage.Account{}
	err := s.db.QueryRowContext(ctx, query, appleID).Scan(
		&account.AppleID,
		&account.DSID,
		&account.FullName,
		&account.Salt,
		&account.Verifier,
		&account.Iterations,
		&account.Protocol,
		&account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}

	return account, nil
}

// CreateSession stores a new sign-in session
func (s *Storage) CreateSession(ctx context.Context, session *storage.Session) error {
	query := `
		INSERT INTO sessions (id, apple_id, verified, created_at)
		VALUES (?, ?, ?, ?)
	`

	if _, err := s.db.ExecContext(ctx, query, session.ID, session.AppleID, session.Verified, session.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves session by id
func (s *Storage) GetSession(ctx context.Context, id string) (*storage.Session, error) {
	query := `
		SELECT id, apple_id, verified, created_at
		FROM sessions
		WHERE id = ?
	`

	session := &storage.Session{}
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.AppleID,
		&session.Verified,
		&session.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return session, nil
}

// MarkSessionVerified records that the second factor was passed
func (s *Storage) MarkSessionVerified(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `UPDATE sessions SET verified = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return storage.ErrSessionNotFound
	}
	return nil
}

// SaveTrustToken stores hash of a trust token issued for the account
func (s *Storage) SaveTrustToken(ctx context.Context, appleID, tokenHash string, expiresAt time.Time) error {
	query := `
		INSERT INTO trust_tokens (token_hash, apple_id, expires_at)
		VALUES (?, ?, ?)
		ON CONFLICT(token_hash) DO UPDATE SET expires_at = excluded.expires_at
	`

	if _, err := s.db.ExecContext(ctx, query, tokenHash, appleID, expiresAt); err != nil {
		return fmt.Errorf("failed to save trust token: %w", err)
	}
	return nil
}

// HasTrustToken reports whether any of the hashes is a live trust token of the account
func (s *Storage) HasTrustToken(ctx context.Context, appleID string, tokenHashes []string) (bool, error) {
	now := time.Now()
	for _, hash := range tokenHashes {
		var expiresAt time.Time
		err := s.db.QueryRowContext(ctx,
			`SELECT expires_at FROM trust_tokens WHERE token_hash = ? AND apple_id = ?`,
			hash, appleID,
		).Scan(&expiresAt)
		if errors.Is(err, sql.ErrNoRows) {
			continue
		}
		if err != nil {
			return false, fmt.Errorf("failed to get trust token: %w", err)
		}
		if expiresAt.After(now) {
			return true, nil
		}
	}
	return false, nil
}

// DeleteExpired removes expired trust tokens and sessions created before the cutoff
func (s *Storage) DeleteExpired(ctx context.Context, sessionsBefore time.Time) (int, error) {
	var total int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		tokens, err := tx.ExecContext(ctx, `DELETE FROM trust_tokens WHERE expires_at < ?`, time.Now())
		if err != nil {
			return fmt.Errorf("failed to delete expired trust tokens: %w", err)
		}
		sessions, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE created_at < ?`, sessionsBefore)
		if err != nil {
			return fmt.Errorf("failed to delete old sessions: %w", err)
		}

		n, err := tokens.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		total += n
		n, err = sessions.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		total += n
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(total), nil
}
