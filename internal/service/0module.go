package service

import (
	"github.com/nats-io/nats.go"
	"go.uber.org/fx"

	"exusiai.dev/pocketstats/internal/carddb"
	"exusiai.dev/pocketstats/internal/repo"
)

func Module() fx.Option {
	return fx.Module("service",
		fx.Provide(
			carddb.Load,

			NewCard,
			NewFilter,
			NewHealth,
			NewOverview,
			NewSiteStats,
			NewCollection,
			NewOverviewMemo,
		),
		fx.Provide(
			func(r *repo.FilterSettings) FilterStore { return r },
			func(r *repo.OwnedCard) OwnedCardStore { return r },
			func(r *repo.Revision) RevisionStore { return r },
			func(js nats.JetStreamContext) EventPublisher { return js },
			func(s *SiteStats) SiteStatsProvider { return s },
		),
	)
}
