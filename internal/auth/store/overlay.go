package store

import (
	"context"
	"errors"
)

// WithRefreshTokens returns base with its refresh-token repository replaced
// by rt, for deployments that keep refresh tokens outside the SQL database.
// The override applies inside transactions too; rt does not take part in
// them.
func WithRefreshTokens(base Store, rt RefreshTokens) Store {
	return &overlay{Store: base, rt: rt}
}

type overlay struct {
	Store
	rt RefreshTokens
}

func (o *overlay) RefreshTokens() RefreshTokens { return o.rt }

func (o *overlay) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	return o.Store.WithTx(ctx, func(tx Tx) error {
		return fn(overlayTx{Tx: tx, rt: o.rt})
	})
}

func (o *overlay) Ping(ctx context.Context) error {
	return errors.Join(o.Store.Ping(ctx), o.rt.Ping(ctx))
}

type overlayTx struct {
	Tx
	rt RefreshTokens
}

func (t overlayTx) RefreshTokens() RefreshTokens { return t.rt }
