package handlers

import (
	"context"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iudanet/cardsync/internal/crypto"
	"github.com/iudanet/cardsync/internal/server/storage"
	"github.com/iudanet/cardsync/pkg/api"
)

// setupTestLogger creates a logger for testing
func setupTestLogger() *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: slog.LevelError,
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}

func testAuthConfig(mode SecondFactor) AuthConfig {
	return AuthConfig{
		SecondFactor:     mode,
		VerificationCode: "123456",
		Tokens: TokenConfig{
			Secret:     []byte("test-secret"),
			SessionTTL: time.Hour,
			TrustTTL:   24 * time.Hour,
		},
	}
}

// mockAccountStorage is an in-memory AccountStorage for testing
type mockAccountStorage struct {
	accounts map[string]*storage.Account
	getError error
	mu       sync.Mutex
}

func newMockAccountStorage() *mockAccountStorage {
	return &mockAccountStorage{accounts: make(map[string]*storage.Account)}
}

func (m *mockAccountStorage) CreateAccount(_ context.Context, account *storage.Account) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.accounts[account.AppleID]; ok {
		return storage.ErrAccountAlreadyExists
	}
	m.accounts[account.AppleID] = account
	return nil
}

func (m *mockAccountStorage) GetAccount(_ context.Context, appleID string) (*storage.Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	account, ok := m.accounts[appleID]
	if !ok {
		return nil, storage.ErrAccountNotFound
	}
	return account, nil
}

// mockSessionStorage is an in-memory SessionStorage for testing
type mockSessionStorage struct {
	sessions    map[string]*storage.Session
	trustTokens map[string]string // hash -> apple id
	createError error
	mu          sync.Mutex
}

func newMockSessionStorage() *mockSessionStorage {
	return &mockSessionStorage{
		sessions:    make(map[string]*storage.Session),
		trustTokens: make(map[string]string),
	}
}

func (m *mockSessionStorage) CreateSession(_ context.Context, session *storage.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	s := *session
	m.sessions[session.ID] = &s
	return nil
}

func (m *mockSessionStorage) GetSession(_ context.Context, id string) (*storage.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, storage.ErrSessionNotFound
	}
	out := *s
	return &out, nil
}

func (m *mockSessionStorage) MarkSessionVerified(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return storage.ErrSessionNotFound
	}
	s.Verified = true
	return nil
}

func (m *mockSessionStorage) SaveTrustToken(_ context.Context, appleID, tokenHash string, _ time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trustTokens[tokenHash] = appleID
	return nil
}

func (m *mockSessionStorage) HasTrustToken(_ context.Context, appleID string, tokenHashes []string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, h := range tokenHashes {
		if m.trustTokens[h] == appleID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSessionStorage) DeleteExpired(_ context.Context, _ time.Time) (int, error) {
	return 0, nil
}

// mockContactStorage is an in-memory ContactStorage for testing.
// Etags are not checked: conflicts are injected through saveError.
type mockContactStorage struct {
	collections map[string]*storage.Collection
	saveError   error
	getError    error
	mu          sync.Mutex
}

func newMockContactStorage() *mockContactStorage {
	return &mockContactStorage{collections: make(map[string]*storage.Collection)}
}

func (m *mockContactStorage) collection(appleID string) *storage.Collection {
	c, ok := m.collections[appleID]
	if !ok {
		c = &storage.Collection{Counter: 1}
		m.collections[appleID] = c
	}
	return c
}

func (m *mockContactStorage) GetCollection(_ context.Context, appleID string) (*storage.Collection, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	c := m.collection(appleID)
	return &storage.Collection{
		Contacts: slices.Clone(c.Contacts),
		Groups:   slices.Clone(c.Groups),
		Counter:  c.Counter,
	}, nil
}

func (m *mockContactStorage) SaveContacts(_ context.Context, appleID string, contacts []api.Contact, update bool) (int64, []api.Contact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return 0, nil, m.saveError
	}
	c := m.collection(appleID)
	c.Counter++
	etag := "C=" + strconv.FormatInt(c.Counter, 10)

	saved := make([]api.Contact, 0, len(contacts))
	for _, contact := range contacts {
		contact.Etag = &etag
		if update {
			i := slices.IndexFunc(c.Contacts, func(x api.Contact) bool { return x.ContactID == contact.ContactID })
			if i < 0 {
				return 0, nil, storage.ErrContactNotFound
			}
			c.Contacts[i] = contact
		} else {
			c.Contacts = append(c.Contacts, contact)
		}
		saved = append(saved, contact)
	}
	return c.Counter, saved, nil
}

func (m *mockContactStorage) SaveGroups(_ context.Context, appleID string, groups []api.Group, update bool) (int64, []api.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveError != nil {
		return 0, nil, m.saveError
	}
	c := m.collection(appleID)
	c.Counter++
	etag := "C=" + strconv.FormatInt(c.Counter, 10)

	saved := make([]api.Group, 0, len(groups))
	for _, group := range groups {
		group.Etag = &etag
		if update {
			i := slices.IndexFunc(c.Groups, func(x api.Group) bool { return x.GroupID == group.GroupID })
			if i < 0 {
				return 0, nil, storage.ErrGroupNotFound
			}
			c.Groups[i] = group
		} else {
			c.Groups = append(c.Groups, group)
		}
		saved = append(saved, group)
	}
	return c.Counter, saved, nil
}

// addTestAccount заводит аккаунт с SRP верификатором пароля
func addTestAccount(t *testing.T, accounts *mockAccountStorage, appleID, password string) *storage.Account {
	t.Helper()

	salt, err := crypto.GenerateSalt()
	require.NoError(t, err)
	key, err := crypto.PasswordKey(password, salt, 1000, crypto.ProtocolS2K)
	require.NoError(t, err)

	account := &storage.Account{
		AppleID:    appleID,
		DSID:       "dsid-" + appleID,
		FullName:   "Test User",
		Protocol:   crypto.ProtocolS2K,
		Salt:       salt,
		Verifier:   crypto.NewVerifier(key, salt),
		Iterations: 1000,
		CreatedAt:  time.Now(),
	}
	require.NoError(t, accounts.CreateAccount(context.Background(), account))
	return account
}
