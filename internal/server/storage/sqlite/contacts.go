package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/internal/server/storage"
	"github.com/iudanet/cardsync/internal/synctoken"
	"github.com/iudanet/cardsync/pkg/api"
)

// GetCollection returns all cards and groups of the account with the current counter
func (s *Storage) GetCollection(ctx context.Context, appleID string) (*storage.Collection, error) {
	collection := &storage.Collection{
		Contacts: []api.Contact{},
		Groups:   []api.Group{},
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		counter, err := readCounter(ctx, tx, appleID)
		if err != nil {
			return err
		}
		collection.Counter = counter

		if err := scanBodies(ctx, tx, `SELECT body FROM contacts WHERE apple_id = ? ORDER BY rowid`, appleID, func(body []byte) error {
			var c api.Contact
			if err := json.Unmarshal(body, &c); err != nil {
				return fmt.Errorf("failed to decode contact: %w", err)
			}
			collection.Contacts = append(collection.Contacts, c)
			return nil
		}); err != nil {
			return err
		}

		return scanBodies(ctx, tx, `SELECT body FROM contact_groups WHERE apple_id = ? ORDER BY rowid`, appleID, func(body []byte) error {
			var g api.Group
			if err := json.Unmarshal(body, &g); err != nil {
				return fmt.Errorf("failed to decode group: %w", err)
			}
			collection.Groups = append(collection.Groups, g)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return collection, nil
}

// SaveContacts creates or updates cards in one transaction
func (s *Storage) SaveContacts(ctx context.Context, appleID string, contacts []api.Contact, update bool) (int64, []api.Contact, error) {
	saved := make([]api.Contact, len(contacts))
	copy(saved, contacts)

	var counter int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		counter, err = bumpCounter(ctx, tx, appleID)
		if err != nil {
			return err
		}
		etag := "C=" + strconv.FormatInt(counter, 10)

		for i := range saved {
			c := &saved[i]
			if c.ContactID == "" {
				if update {
					return fmt.Errorf("contact #%d: %w", i, storage.ErrContactNotFound)
				}
				c.ContactID = models.NewRemoteID().String()
			}
			if err := checkEtag(ctx, tx, "contacts", appleID, c.ContactID, c.Etag, update); err != nil {
				return fmt.Errorf("contact %s: %w", c.ContactID, err)
			}
			c.Etag = &etag
			if err := writeBody(ctx, tx, "contacts", appleID, c.ContactID, etag, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return counter, saved, nil
}

// SaveGroups creates or updates groups in one transaction
func (s *Storage) SaveGroups(ctx context.Context, appleID string, groups []api.Group, update bool) (int64, []api.Group, error) {
	saved := make([]api.Group, len(groups))
	copy(saved, groups)

	var counter int64
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var err error
		counter, err = bumpCounter(ctx, tx, appleID)
		if err != nil {
			return err
		}
		etag := "C=" + strconv.FormatInt(counter, 10)

		for i := range saved {
			g := &saved[i]
			if g.GroupID == "" {
				if update {
					return fmt.Errorf("group #%d: %w", i, storage.ErrGroupNotFound)
				}
				g.GroupID = models.NewRemoteID().String()
			}
			if g.ContactIDs == nil {
				g.ContactIDs = []string{}
			}
			if err := checkEtag(ctx, tx, "contact_groups", appleID, g.GroupID, g.Etag, update); err != nil {
				return fmt.Errorf("group %s: %w", g.GroupID, err)
			}
			g.Etag = &etag
			if err := writeBody(ctx, tx, "contact_groups", appleID, g.GroupID, etag, g); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, nil, err
	}
	return counter, saved, nil
}

func readCounter(ctx context.Context, tx *sql.Tx, appleID string) (int64, error) {
	var counter int64
	err := tx.QueryRowContext(ctx, `SELECT counter FROM accounts WHERE apple_id = ?`, appleID).Scan(&counter)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, storage.ErrAccountNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter: %w", err)
	}
	return counter, nil
}

func bumpCounter(ctx context.Context, tx *sql.Tx, appleID string) (int64, error) {
	if _, err := tx.ExecContext(ctx, `UPDATE accounts SET counter = counter + 1 WHERE apple_id = ?`, appleID); err != nil {
		return 0, fmt.Errorf("failed to bump counter: %w", err)
	}
	return readCounter(ctx, tx, appleID)
}

// checkEtag: создание требует отсутствия записи, изменение требует записи
// и etag не старее сохраненного
func checkEtag(ctx context.Context, tx *sql.Tx, table, appleID, id string, etag *string, update bool) error {
	var stored string
	err := tx.QueryRowContext(ctx,
		`SELECT etag FROM `+table+` WHERE apple_id = ? AND id = ?`,
		appleID, id,
	).Scan(&stored)

	exists := true
	if errors.Is(err, sql.ErrNoRows) {
		exists = false
	} else if err != nil {
		return fmt.Errorf("failed to read etag: %w", err)
	}

	notFound := storage.ErrContactNotFound
	alreadyExists := storage.ErrContactAlreadyExists
	if table == "contact_groups" {
		notFound = storage.ErrGroupNotFound
		alreadyExists = storage.ErrGroupAlreadyExists
	}

	if !update {
		if exists {
			return alreadyExists
		}
		return nil
	}
	if !exists {
		return notFound
	}
	if etag == nil {
		return storage.ErrEtagConflict
	}

	current, ok := synctoken.EtagNumber(stored)
	if !ok {
		return nil
	}
	got, ok := synctoken.EtagNumber(*etag)
	if !ok || got < current {
		return storage.ErrEtagConflict
	}
	return nil
}

func writeBody(ctx context.Context, tx *sql.Tx, table, appleID, id, etag string, record any) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", id, err)
	}

	query := `
		INSERT INTO ` + table + ` (apple_id, id, etag, body)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(apple_id, id) DO UPDATE SET etag = excluded.etag, body = excluded.body
	`
	if _, err := tx.ExecContext(ctx, query, appleID, id, etag, string(body)); err != nil {
		return fmt.Errorf("failed to save %s: %w", id, err)
	}
	return nil
}

func scanBodies(ctx context.Context, tx *sql.Tx, query, appleID string, fn func(body []byte) error) error {
	rows, err := tx.QueryContext(ctx, query, appleID)
	if err != nil {
		return fmt.Errorf("failed to query records: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return fmt.Errorf("failed to scan record: %w", err)
		}
		if err := fn([]byte(body)); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("rows iteration error: %w", err)
	}
	return nil
}
