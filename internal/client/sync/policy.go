package sync

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/iudanet/cardsync/internal/client/iocli"
	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/internal/reconcile"
)

// interactivePolicy показывает изменение и спрашивает пользователя
type interactivePolicy struct {
	io   iocli.IO
	mode reconcile.Mode
}

var _ reconcile.Policy = (*interactivePolicy)(nil)

func newPolicy(io iocli.IO, mode reconcile.Mode) *interactivePolicy {
	return &interactivePolicy{io: io, mode: mode}
}

func (p *interactivePolicy) AcceptCreation(_ context.Context, c *models.Contact) (bool, error) {
	text, err := dump(c)
	if err != nil {
		return false, err
	}
	p.io.Println(iocli.Bordered(text, iocli.BorderWidth))
	return iocli.Confirm(p.io, "Accept creation?")
}

func (p *interactivePolicy) AcceptUpdate(_ context.Context, u *reconcile.Update) (bool, error) {
	current, err := dump(u.Current)
	if err != nil {
		return false, err
	}
	p.io.Println(iocli.Besides(
		iocli.Bordered(current, iocli.BorderWidth),
		iocli.Bordered(u.Diff.String(), iocli.BorderWidth),
	))

	// заметки хранят сериализованный блок, его удобнее сравнивать целиком
	if p.mode == reconcile.Push {
		if _, ok := u.Diff.Update["notes"]; ok {
			p.io.Println(iocli.Besides(
				iocli.Bordered(notes(u.Current), iocli.BorderWidth),
				iocli.Bordered(notes(u.Proposed), iocli.BorderWidth),
			))
		}
	}
	return iocli.Confirm(p.io, "Accept update?")
}

// dump форматирует запись так же, как она лежит в локальном файле
func dump(c *models.Contact) (string, error) {
	raw, err := json.MarshalIndent(c, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to render contact: %w", err)
	}
	return string(raw), nil
}

func notes(c *models.Contact) string {
	if c.Notes == nil {
		return ""
	}
	return *c.Notes
}
