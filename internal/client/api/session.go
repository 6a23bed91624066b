package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/iudanet/cardsync/internal/fsutil"
)

// Ключи параметров сессии
const (
	KeyAccountCountry = "account_country"
	KeySessionID      = "session_id"
	KeySessionToken   = "session_token"
	KeyTrustToken     = "trust_token"
	KeyAppleRscd      = "apple_rscd"
	KeyAppleErcd      = "apple_ercd"
	KeyScnt           = "scnt"
	KeyClientID       = "client_id"
)

// sessionHeaders заголовок ответа -> ключ сессии
var sessionHeaders = map[string]string{
	"X-Apple-ID-Account-Country": KeyAccountCountry,
	"X-Apple-ID-Session-Id":      KeySessionID,
	"X-Apple-Session-Token":      KeySessionToken,
	"X-Apple-TwoSV-Trust-Token":  KeyTrustToken,
	"X-Apple-I-Rscd":             KeyAppleRscd,
	"X-Apple-I-Ercd":             KeyAppleErcd,
	"scnt":                       KeyScnt,
}

const (
	dirPerm  = 0o700
	filePerm = 0o600
)

var nonWordChars = regexp.MustCompile(`\W`)

// SessionStore файлы сессии и cookies одного аккаунта
type SessionStore struct {
	dir  string
	name string
}

// NewSessionStore создает каталог сессий, если его нет
func NewSessionStore(dir, account string) (*SessionStore, error) {
	name := nonWordChars.ReplaceAllString(account, "")
	if name == "" {
		return nil, fmt.Errorf("account name %q has no usable characters", account)
	}
	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("failed to create session directory: %w", err)
	}
	return &SessionStore{dir: dir, name: name}, nil
}

// CookiePath путь к файлу cookies
func (s *SessionStore) CookiePath() string {
	return filepath.Join(s.dir, s.name)
}

// SessionPath путь к файлу параметров сессии
func (s *SessionStore) SessionPath() string {
	return filepath.Join(s.dir, s.name+".session")
}

// LoadSession читает параметры сессии; отсутствующий файл дает пустую сессию
func (s *SessionStore) LoadSession() (map[string]string, error) {
	data, err := os.ReadFile(s.SessionPath())
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	session := map[string]string{}
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	return session, nil
}

// SaveSession записывает параметры сессии
func (s *SessionStore) SaveSession(session map[string]string) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return fsutil.WriteFileAtomic(s.SessionPath(), data, filePerm)
}

// Remove удаляет файлы сессии и cookies
func (s *SessionStore) Remove() error {
	var errs []error
	for _, path := range []string{s.SessionPath(), s.CookiePath()} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
