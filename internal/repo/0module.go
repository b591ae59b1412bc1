package repo

import (
	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("repo", fx.Provide(
		NewRevision,
		NewOwnedCard,
		NewFilterSettings,
	))
}

// CreateSchema creates missing tables once the database is reachable.
func CreateSchema(lc fx.Lifecycle, r *OwnedCard) {
	lc.Append(fx.Hook{
		OnStart: r.CreateSchema,
	})
}
