// Package contacts работает с коллекцией контактов удаленного сервиса:
// загрузка снимка, создание и изменение карточек и групп.
package contacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/iudanet/cardsync/internal/client/api"
	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/internal/synctoken"
	pkgapi "github.com/iudanet/cardsync/pkg/api"
)

// ServiceName ключ сервиса контактов в таблице webservices
const ServiceName = "contacts"

// DefaultGroupInterval пауза между изменениями групп
const DefaultGroupInterval = time.Second

//go:generate moq -out session_mock.go . Session

// Session то, что менеджеру нужно от клиента
type Session interface {
	WebserviceURL(key string) (string, error)
	Do(ctx context.Context, r api.Request, result any) error
}

// Option настраивает Manager
type Option func(*Manager)

// WithGroupInterval меняет паузу между изменениями групп; 0 снимает ограничение
func WithGroupInterval(d time.Duration) Option {
	return func(m *Manager) {
		if d <= 0 {
			m.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		m.limiter = rate.NewLimiter(rate.Every(d), 1)
	}
}

// Manager коллекция контактов одного аккаунта.
// Изменения выполняются строго по одному.
type Manager struct {
	session   Session
	token     *synctoken.Token
	limiter   *rate.Limiter
	logger    *slog.Logger
	prefToken string
	mu        sync.Mutex
}

// NewManager создает менеджер поверх сессии клиента
func NewManager(session Session, logger *slog.Logger, opts ...Option) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Manager{
		session: session,
		token:   synctoken.New(),
		logger:  logger,
	}
	WithGroupInterval(DefaultGroupInterval)(m)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SyncToken текущий курсор синхронизации в формате сервера
func (m *Manager) SyncToken() string {
	return m.token.String()
}

// SyncNumber текущий номер курсора
func (m *Manager) SyncNumber() int64 {
	return m.token.Number()
}

func (m *Manager) root() (string, error) {
	base, err := m.session.WebserviceURL(ServiceName)
	if err != nil {
		return "", err
	}
	return base + "/co", nil
}

func baseParams() url.Values {
	return url.Values{
		"clientVersion": {"2.1"},
		"locale":        {"en_US"},
		"order":         {"last,first"},
	}
}

func (m *Manager) tokenParams() url.Values {
	params := baseParams()
	params.Set("prefToken", m.prefToken)
	params.Set("syncToken", m.token.String())
	return params
}

// updateToken принимает курсор из ответа сервера
func (m *Manager) updateToken(raw string) error {
	if raw == "" {
		return nil
	}
	if err := m.token.Update(raw); err != nil {
		if errors.Is(err, synctoken.ErrStale) {
			m.logger.Warn("ignoring stale sync token", "received", raw, "current", m.token.String())
			return nil
		}
		return fmt.Errorf("failed to update sync token: %w", err)
	}
	return nil
}

func (m *Manager) startup(ctx context.Context, root string) (*pkgapi.StartupResponse, error) {
	var startup pkgapi.StartupResponse
	err := m.session.Do(ctx, api.Request{
		Method: http.MethodGet,
		URL:    root + "/startup",
		Query:  baseParams(),
	}, &startup)
	if err != nil {
		return nil, fmt.Errorf("failed to start contacts session: %w", err)
	}
	m.prefToken = startup.PrefToken
	if err := m.updateToken(startup.SyncToken); err != nil {
		return nil, err
	}
	return &startup, nil
}

// FetchAll загружает все контакты и группы.
// Каждая запись контакта декодируется строго: неизвестное поле прерывает загрузку.
func (m *Manager) FetchAll(ctx context.Context) ([]pkgapi.Contact, []pkgapi.Group, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	root, err := m.root()
	if err != nil {
		return nil, nil, err
	}
	startup, err := m.startup(ctx, root)
	if err != nil {
		return nil, nil, err
	}

	params := m.tokenParams()
	params.Set("limit", "0")
	params.Set("offset", "0")

	var resp pkgapi.ContactsResponse
	err = m.session.Do(ctx, api.Request{
		Method: http.MethodGet,
		URL:    root + "/contacts",
		Query:  params,
	}, &resp)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch contacts: %w", err)
	}
	if err := m.updateToken(resp.SyncToken); err != nil {
		return nil, nil, err
	}

	contacts := make([]pkgapi.Contact, 0, len(resp.Contacts))
	for i, raw := range resp.Contacts {
		c, err := pkgapi.DecodeContact(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("contact #%d: %w", i, err)
		}
		contacts = append(contacts, *c)
	}

	m.logger.Debug("fetched contacts", "contacts", len(contacts), "groups", len(startup.Groups), "sync_token", m.token.String())
	return contacts, startup.Groups, nil
}

// CreateContacts создает карточки одним запросом.
// Карточкам без contactId присваивается новый идентификатор прямо в переданном срезе.
func (m *Manager) CreateContacts(ctx context.Context, contacts []pkgapi.Contact) (*pkgapi.MutationResponse, error) {
	if len(contacts) == 0 {
		return &pkgapi.MutationResponse{}, nil
	}
	for i := range contacts {
		if contacts[i].ContactID == "" {
			contacts[i].ContactID = models.NewRemoteID().String()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	root, err := m.ensureStarted(ctx)
	if err != nil {
		return nil, err
	}
	return m.mutate(ctx, root, "/contacts/card", false, pkgapi.ContactsRequest{Contacts: contacts})
}

// UpdateContacts изменяет карточки одним запросом.
// Отставшие etag подтягиваются к текущему номеру курсора.
func (m *Manager) UpdateContacts(ctx context.Context, contacts []pkgapi.Contact) (*pkgapi.MutationResponse, error) {
	if len(contacts) == 0 {
		return &pkgapi.MutationResponse{}, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// номер курсора известен только после startup
	root, err := m.ensureStarted(ctx)
	if err != nil {
		return nil, err
	}
	current := m.token.Number()
	corrected := make([]pkgapi.Contact, len(contacts))
	for i, c := range contacts {
		if c.Etag != nil {
			etag := synctoken.CorrectEtag(*c.Etag, current)
			c.Etag = &etag
		}
		corrected[i] = c
	}
	return m.mutate(ctx, root, "/contacts/card", true, pkgapi.ContactsRequest{Contacts: corrected})
}

// CreateGroup создает одну группу
func (m *Manager) CreateGroup(ctx context.Context, g pkgapi.Group) (*pkgapi.MutationResponse, error) {
	if g.GroupID == "" {
		g.GroupID = models.NewRemoteID().String()
	}
	return m.mutateGroup(ctx, g, false)
}

// UpdateGroup изменяет одну группу
func (m *Manager) UpdateGroup(ctx context.Context, g pkgapi.Group) (*pkgapi.MutationResponse, error) {
	return m.mutateGroup(ctx, g, true)
}

func (m *Manager) mutateGroup(ctx context.Context, g pkgapi.Group, update bool) (*pkgapi.MutationResponse, error) {
	if err := m.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	root, err := m.ensureStarted(ctx)
	if err != nil {
		return nil, err
	}
	if update && g.Etag != nil {
		etag := synctoken.CorrectEtag(*g.Etag, m.token.Number())
		g.Etag = &etag
	}
	return m.mutate(ctx, root, "/groups/card", update, pkgapi.GroupsRequest{Groups: []pkgapi.Group{g}})
}

// ensureStarted загружает prefToken и курсор, если снимок еще не запрашивался;
// вызывается под m.mu
func (m *Manager) ensureStarted(ctx context.Context) (string, error) {
	root, err := m.root()
	if err != nil {
		return "", err
	}
	if m.prefToken == "" {
		if _, err := m.startup(ctx, root); err != nil {
			return "", err
		}
	}
	return root, nil
}

// mutate выполняет изменение; вызывается под m.mu после ensureStarted
func (m *Manager) mutate(ctx context.Context, root, path string, update bool, body any) (*pkgapi.MutationResponse, error) {
	params := m.tokenParams()
	if update {
		params.Set("method", http.MethodPut)
	}

	var resp pkgapi.MutationResponse
	err := m.session.Do(ctx, api.Request{
		Method: http.MethodPost,
		URL:    root + path,
		Query:  params,
		Body:   body,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("failed to modify %s: %w", path, err)
	}
	if err := m.updateToken(resp.SyncToken); err != nil {
		return nil, err
	}
	return &resp, nil
}
