// Package sync переносит изменения контактов между локальным файлом и сервером.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/cardsync/internal/client/iocli"
	"github.com/iudanet/cardsync/internal/client/storage"
	"github.com/iudanet/cardsync/internal/config"
	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/internal/reconcile"
	"github.com/iudanet/cardsync/internal/translator"
	"github.com/iudanet/cardsync/pkg/api"
)

// ErrQuit пользователь прервал команду
var ErrQuit = iocli.ErrQuit

//go:generate moq -out manager_mock.go . ContactManager

// ContactManager удаленная коллекция контактов
type ContactManager interface {
	FetchAll(ctx context.Context) ([]api.Contact, []api.Group, error)
	CreateContacts(ctx context.Context, contacts []api.Contact) (*api.MutationResponse, error)
	UpdateContacts(ctx context.Context, contacts []api.Contact) (*api.MutationResponse, error)
	CreateGroup(ctx context.Context, g api.Group) (*api.MutationResponse, error)
	UpdateGroup(ctx context.Context, g api.Group) (*api.MutationResponse, error)
	SyncToken() string
}

// PullOptions параметры pull
type PullOptions struct {
	// Cached берет снимок из локального кэша вместо сервера
	Cached bool
}

// PushOptions параметры push
type PushOptions struct {
	Force bool
	Write bool
}

// Option настраивает Service
type Option func(*Service)

// WithIgnoredIDs задает идентификаторы удаленных записей, которые не переводятся
func WithIgnoredIDs(ids []string) Option {
	return func(s *Service) {
		s.ignored = ids
	}
}

// WithGroupRules задает правила состава групп
func WithGroupRules(rules []config.GroupRule) Option {
	return func(s *Service) {
		s.groups = rules
	}
}

// WithClock подменяет источник времени
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// Service выполняет команды pull, push и sync-groups
type Service struct {
	manager   ContactManager
	local     storage.LocalStore
	snapshots storage.SnapshotStorage
	metadata  storage.MetadataStorage
	io        iocli.IO
	logger    *slog.Logger
	now       func() time.Time
	ignored   []string
	groups    []config.GroupRule
}

// NewService создает сервис синхронизации
func NewService(
	manager ContactManager,
	local storage.LocalStore,
	snapshots storage.SnapshotStorage,
	metadata storage.MetadataStorage,
	io iocli.IO,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		manager:   manager,
		local:     local,
		snapshots: snapshots,
		metadata:  metadata,
		io:        io,
		logger:    logger,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Pull переносит удаленные изменения в локальный файл
func (s *Service) Pull(ctx context.Context, opts PullOptions) (*reconcile.Result, error) {
	s.logger.Info("Starting pull", "cached", opts.Cached)

	snap, err := s.remoteSnapshot(ctx, opts.Cached)
	if err != nil {
		return nil, err
	}
	remote, err := translator.ContactsToInternal(ctx, snap.Contacts, s.ignored)
	if err != nil {
		return nil, fmt.Errorf("failed to translate remote contacts: %w", err)
	}
	local, err := s.local.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load local contacts: %w", err)
	}

	res, err := reconcile.Reconcile(ctx, remote, local, newPolicy(s.io, reconcile.Pull), reconcile.Options{Mode: reconcile.Pull})
	if err != nil {
		return nil, err
	}

	if err := s.local.Save(ctx, applyPull(local, res)); err != nil {
		return nil, fmt.Errorf("failed to save local contacts: %w", err)
	}
	s.recordSync(ctx, snap.SyncToken)

	s.logger.Info("Pull completed",
		"created", len(res.ToCreateLocally),
		"updated", len(res.ToUpdate),
		"merged", len(res.Merged),
		"skipped", len(res.Skipped),
		"orphaned", len(res.Orphaned))
	for _, c := range res.Orphaned {
		s.logger.Warn("Local contact is missing remotely", "contact_id", c.RemoteUUID(), "name", c.DisplayName())
	}
	return res, nil
}

// Push переносит локальные изменения на сервер.
// Без Write только сообщает, что было бы сделано.
func (s *Service) Push(ctx context.Context, opts PushOptions) (*reconcile.Result, error) {
	s.logger.Info("Starting push", "force", opts.Force, "write", opts.Write)

	local, err := s.local.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load local contacts: %w", err)
	}
	contacts, _, err := s.manager.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote contacts: %w", err)
	}
	remote, err := translator.ContactsToInternal(ctx, contacts, s.ignored)
	if err != nil {
		return nil, fmt.Errorf("failed to translate remote contacts: %w", err)
	}

	res, err := reconcile.Reconcile(ctx, remote, local, newPolicy(s.io, reconcile.Push), reconcile.Options{
		Mode:  reconcile.Push,
		Force: opts.Force,
		Write: opts.Write,
	})
	if err != nil {
		return nil, err
	}

	if !opts.Write {
		s.io.Printf("Would have created %d contact(s)\n", len(res.ToCreateRemotely))
		s.io.Printf("Would have updated %d contact(s)\n", len(res.ToUpdate))
		return res, nil
	}

	if err := s.createRemotely(ctx, local, res); err != nil {
		return nil, err
	}
	if err := s.updateRemotely(ctx, res.ToUpdate); err != nil {
		return nil, err
	}

	if len(res.ToCreateRemotely) == 0 && len(res.ToUpdate) == 0 {
		return res, nil
	}
	s.io.Println("Pulling contact(s) to sync etag(s)...")
	if _, err := s.Pull(ctx, PullOptions{}); err != nil {
		return nil, fmt.Errorf("resync pull failed: %w", err)
	}
	return res, nil
}

// createRemotely создает записи на сервере и сохраняет выданные идентификаторы локально
func (s *Service) createRemotely(ctx context.Context, local []models.Contact, res *reconcile.Result) error {
	if len(res.ToCreateRemotely) == 0 {
		s.io.Println("Created 0 contact(s)")
		return nil
	}

	batch := make([]api.Contact, 0, len(res.ToCreateRemotely))
	for i := range res.ToCreateRemotely {
		ext, err := translator.ToExternal(&res.ToCreateRemotely[i])
		if err != nil {
			return err
		}
		batch = append(batch, *ext)
	}
	if _, err := s.manager.CreateContacts(ctx, batch); err != nil {
		return fmt.Errorf("failed to create contacts: %w", err)
	}

	for i, pos := range res.LocalIndex {
		id := models.RemoteID(batch[i].ContactID)
		if local[pos].ICloud == nil {
			local[pos].ICloud = &models.ICloudMetadata{}
		}
		local[pos].ICloud.UUID = id
		s.logger.Debug("Contact created", "contact_id", id, "name", local[pos].DisplayName())
	}
	// идентификаторы нужно сохранить до повторного pull, иначе записи задвоятся
	if err := s.local.Save(ctx, local); err != nil {
		return fmt.Errorf("failed to save local contacts: %w", err)
	}
	s.io.Printf("Created %d contact(s)\n", len(batch))
	return nil
}

func (s *Service) updateRemotely(ctx context.Context, updates []reconcile.Update) error {
	batch := make([]api.Contact, 0, len(updates))
	for _, u := range updates {
		ext, err := translator.ToExternal(u.Proposed)
		if err != nil {
			return err
		}
		batch = append(batch, *ext)
	}
	if len(batch) > 0 {
		if _, err := s.manager.UpdateContacts(ctx, batch); err != nil {
			return fmt.Errorf("failed to update contacts: %w", err)
		}
	}
	s.io.Printf("Updated %d contact(s)\n", len(batch))
	return nil
}

// remoteSnapshot загружает снимок с сервера и кэширует его, либо читает кэш
func (s *Service) remoteSnapshot(ctx context.Context, cached bool) (*storage.Snapshot, error) {
	if cached {
		snap, err := s.snapshots.GetSnapshot(ctx)
		if errors.Is(err, storage.ErrSnapshotNotFound) {
			return nil, fmt.Errorf("no cached contacts, run pull without --cached: %w", err)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read cached contacts: %w", err)
		}
		s.logger.Debug("Using cached snapshot", "fetched_at", snap.FetchedAt, "contacts", len(snap.Contacts))
		return snap, nil
	}

	contacts, groups, err := s.manager.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch remote contacts: %w", err)
	}
	snap := &storage.Snapshot{
		FetchedAt: s.now().UTC(),
		SyncToken: s.manager.SyncToken(),
		Contacts:  contacts,
		Groups:    groups,
	}
	if err := s.snapshots.SaveSnapshot(ctx, snap); err != nil {
		// кэш нужен только для --cached, pull продолжается
		s.logger.Warn("Failed to cache snapshot", "error", err)
	}
	return snap, nil
}

func (s *Service) recordSync(ctx context.Context, token string) {
	if err := s.metadata.SaveLastSyncTimestamp(ctx, s.now().Unix()); err != nil {
		s.logger.Warn("Failed to save last sync timestamp", "error", err)
	}
	if token == "" {
		return
	}
	if err := s.metadata.SaveLastSyncToken(ctx, token); err != nil {
		s.logger.Warn("Failed to save last sync token", "error", err)
	}
}

// applyPull применяет принятые изменения к локальному набору
func applyPull(local []models.Contact, res *reconcile.Result) []models.Contact {
	out := make([]models.Contact, 0, len(local)+len(res.ToCreateLocally))
	out = append(out, local...)

	pos := make(map[models.RemoteID]int, len(out))
	for i := range out {
		if id := out[i].RemoteUUID(); !id.IsZero() {
			pos[id] = i
		}
	}
	for _, updates := range [][]reconcile.Update{res.Merged, res.ToUpdate} {
		for _, u := range updates {
			if i, ok := pos[u.ID]; ok {
				out[i] = *u.Proposed
			}
		}
	}
	return append(out, res.ToCreateLocally...)
}
