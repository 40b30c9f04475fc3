package gormdb

import (
	"context"
	"errors"

	"github.com/dom/kick-danila/internal/domain"
	"github.com/dom/kick-danila/internal/repository"
)

// Seed inserts the default kick types when none exist and creates the
// Danila singleton when it is absent. Running it again is a no-op.
func Seed(ctx context.Context, repos *repository.Repositories) error {
	return repos.Tx.WithinTx(ctx, func(tx *repository.Repositories) error {
		count, err := tx.KickType.Count(ctx)
		if err != nil {
			return err
		}
		if count == 0 {
			for _, kt := range domain.DefaultKickTypes {
				kickType := kt
				if err := tx.KickType.Create(ctx, &kickType); err != nil {
					return err
				}
			}
		}

		_, err = tx.Danila.Get(ctx)
		if errors.Is(err, repository.ErrNotFound) {
			return tx.Danila.Upsert(ctx, domain.NewDanila())
		}
		return err
	})
}
