package translator

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/iudanet/cardsync/internal/models"
	"github.com/iudanet/cardsync/pkg/api"
)

// ContactsToInternal переводит набор удаленных записей параллельно.
// Записи из ignored пропускаются. Первая же ошибка прерывает весь перевод,
// частичный результат не возвращается.
func ContactsToInternal(ctx context.Context, remote []api.Contact, ignored []string) ([]models.Contact, error) {
	skip := make(map[string]struct{}, len(ignored))
	for _, id := range ignored {
		skip[id] = struct{}{}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	results := make([]*models.Contact, len(remote))
	for i := range remote {
		if _, ok := skip[remote[i].ContactID]; ok {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			c, err := ToInternal(&remote[i])
			if err != nil {
				return err
			}
			results[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]models.Contact, 0, len(remote))
	for _, c := range results {
		if c != nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

// GroupsToInternal переводит набор удаленных групп
func GroupsToInternal(remote []api.Group) ([]models.Group, error) {
	out := make([]models.Group, 0, len(remote))
	for i := range remote {
		g, err := GroupToInternal(&remote[i])
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	return out, nil
}
