// Package reconcile сравнивает локальный и удаленный наборы контактов
// и решает, какие отличия перенести на какую сторону.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/iudanet/cardsync/internal/models"
)

// ErrDuplicateID в одном наборе два контакта с одним удаленным идентификатором
var ErrDuplicateID = errors.New("duplicate remote id")

// Mode направление синхронизации
type Mode int

const (
	// Pull переносит удаленные изменения в локальный набор
	Pull Mode = iota
	// Push переносит локальные изменения на сервер
	Push
)

func (m Mode) String() string {
	if m == Push {
		return "push"
	}
	return "pull"
}

//go:generate moq -out policy_mock.go . Policy

// Policy принимает решения по существенным изменениям
type Policy interface {
	AcceptCreation(ctx context.Context, c *models.Contact) (bool, error)
	AcceptUpdate(ctx context.Context, u *Update) (bool, error)
}

// Options параметры сверки
type Options struct {
	Mode Mode
	// Force принимает все изменения без вопросов
	Force bool
	// Write принимает создания без вопросов
	Write bool
}

// Update предлагаемое изменение существующей записи
type Update struct {
	Current      *models.Contact
	Proposed     *models.Contact
	Diff         *Diff
	ID           models.RemoteID
	MetadataOnly bool
}

// Skip отклоненное изменение
type Skip struct {
	ID       models.RemoteID
	Name     string
	Creation bool
}

// Result итог сверки.
// ToUpdate содержит принятые существенные изменения, Merged принятые без вопросов
// изменения версии, Orphaned связанные локальные записи, которых нет на сервере.
type Result struct {
	ToCreateLocally  []models.Contact
	ToCreateRemotely []models.Contact
	// LocalIndex[i] позиция ToCreateRemotely[i] в локальном наборе
	LocalIndex []int
	ToUpdate   []Update
	Merged     []Update
	Orphaned   []models.Contact
	Skipped    []Skip
	Unchanged  int
}

// Reconcile сверяет наборы remote и local.
// Ошибка политики прерывает сверку.
func Reconcile(ctx context.Context, remote, local []models.Contact, policy Policy, opts Options) (*Result, error) {
	remoteByID, _, err := index(remote)
	if err != nil {
		return nil, fmt.Errorf("remote set: %w", err)
	}
	localByID, unlinked, err := index(local)
	if err != nil {
		return nil, fmt.Errorf("local set: %w", err)
	}

	r := &reconciler{policy: policy, opts: opts, result: &Result{}}

	remoteOnly, localOnly, both := partition(remoteByID, localByID)

	switch opts.Mode {
	case Pull:
		for _, id := range remoteOnly {
			c := &remote[remoteByID[id]]
			accepted, err := r.acceptCreation(ctx, c)
			if err != nil {
				return nil, err
			}
			if accepted {
				r.result.ToCreateLocally = append(r.result.ToCreateLocally, *c.Clone())
			}
		}
		for _, id := range localOnly {
			r.result.Orphaned = append(r.result.Orphaned, *local[localByID[id]].Clone())
		}
	case Push:
		for _, id := range localOnly {
			if err := r.createRemotely(ctx, local, localByID[id]); err != nil {
				return nil, err
			}
		}
		for _, i := range unlinked {
			if err := r.createRemotely(ctx, local, i); err != nil {
				return nil, err
			}
		}
	default:
		return nil, fmt.Errorf("unknown mode %d", opts.Mode)
	}

	for _, id := range both {
		current, proposed := propose(opts.Mode, &remote[remoteByID[id]], &local[localByID[id]])
		if err := r.update(ctx, id, current, proposed); err != nil {
			return nil, err
		}
	}
	return r.result, nil
}

// propose возвращает текущее и предлагаемое состояние записи
func propose(mode Mode, remote, local *models.Contact) (*models.Contact, *models.Contact) {
	if mode == Push {
		return remote.Clone(), local.Clone()
	}
	merged := local.Clone()
	merged.Patch(remote)
	return local.Clone(), merged
}

type reconciler struct {
	policy Policy
	result *Result
	opts   Options
}

func (r *reconciler) acceptCreation(ctx context.Context, c *models.Contact) (bool, error) {
	if r.opts.Force || r.opts.Write {
		return true, nil
	}
	accepted, err := r.policy.AcceptCreation(ctx, c)
	if err != nil {
		return false, err
	}
	if !accepted {
		r.result.Skipped = append(r.result.Skipped, Skip{ID: c.RemoteUUID(), Name: c.DisplayName(), Creation: true})
	}
	return accepted, nil
}

func (r *reconciler) createRemotely(ctx context.Context, local []models.Contact, i int) error {
	accepted, err := r.acceptCreation(ctx, &local[i])
	if err != nil {
		return err
	}
	if accepted {
		r.result.ToCreateRemotely = append(r.result.ToCreateRemotely, *local[i].Clone())
		r.result.LocalIndex = append(r.result.LocalIndex, i)
	}
	return nil
}

func (r *reconciler) update(ctx context.Context, id models.RemoteID, current, proposed *models.Contact) error {
	d, err := Compare(current, proposed)
	if err != nil {
		return fmt.Errorf("contact %s: %w", id, err)
	}
	if d.IsEmpty() {
		r.result.Unchanged++
		return nil
	}

	u := Update{
		ID:           id,
		Current:      current,
		Proposed:     proposed,
		Diff:         d,
		MetadataOnly: d.MetadataOnly(),
	}
	if u.MetadataOnly {
		r.result.Merged = append(r.result.Merged, u)
		return nil
	}

	accepted := r.opts.Force
	if !accepted {
		accepted, err = r.policy.AcceptUpdate(ctx, &u)
		if err != nil {
			return err
		}
	}
	if !accepted {
		r.result.Skipped = append(r.result.Skipped, Skip{ID: id, Name: current.DisplayName()})
		return nil
	}
	r.result.ToUpdate = append(r.result.ToUpdate, u)
	return nil
}

// index строит карту позиций по удаленному идентификатору.
// Позиции несвязанных записей возвращаются отдельно в исходном порядке.
func index(contacts []models.Contact) (map[models.RemoteID]int, []int, error) {
	byID := make(map[models.RemoteID]int, len(contacts))
	var unlinked []int
	for i := range contacts {
		id := contacts[i].RemoteUUID()
		if id.IsZero() {
			unlinked = append(unlinked, i)
			continue
		}
		if _, ok := byID[id]; ok {
			return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateID, id)
		}
		byID[id] = i
	}
	return byID, unlinked, nil
}

// partition делит идентификаторы на три отсортированных списка
func partition(remote, local map[models.RemoteID]int) (remoteOnly, localOnly, both []models.RemoteID) {
	for _, id := range slices.Sorted(maps.Keys(remote)) {
		if _, ok := local[id]; ok {
			both = append(both, id)
		} else {
			remoteOnly = append(remoteOnly, id)
		}
	}
	for _, id := range slices.Sorted(maps.Keys(local)) {
		if _, ok := remote[id]; !ok {
			localOnly = append(localOnly, id)
		}
	}
	return remoteOnly, localOnly, both
}
