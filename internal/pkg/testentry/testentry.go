// Package testentry starts the HTTP surface of the application on top of in-memory
// stores, for handler tests that need the full middleware chain.
package testentry

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"exusiai.dev/pocketstats/internal/app/appconfig"
	"exusiai.dev/pocketstats/internal/app/appcontext"
	"exusiai.dev/pocketstats/internal/carddb"
	controllerv1 "exusiai.dev/pocketstats/internal/controller/v1"
	"exusiai.dev/pocketstats/internal/server"
	"exusiai.dev/pocketstats/internal/service"
	"exusiai.dev/pocketstats/internal/service/servicetest"
)

// Stores exposes the in-memory backends of a populated app so tests can seed and
// inspect them.
type Stores struct {
	fx.In

	Filters   *servicetest.FilterStore
	Owned     *servicetest.OwnedCardStore
	Revisions *servicetest.RevisionStore
	Events    *servicetest.Publisher
	Memo      *servicetest.Memo
}

func Config() *appconfig.Config {
	return &appconfig.Config{
		ConfigSpec: appconfig.ConfigSpec{
			ServiceAddress:            "localhost:0",
			TrustedProxies:            []string{"127.0.0.1"},
			DevMode:                   true,
			HTTPServerShutdownTimeout: time.Second,
			SearchDebounce:            time.Millisecond * 10,
			OverviewCacheTTL:          time.Hour,
		},
		AppContext: appcontext.Declare(appcontext.EnvServer),
	}
}

func Options(t zerolog.TestingLog) []fx.Option {
	return []fx.Option{
		// for testing, logger is too annoying. therefore, we use a NopLogger here
		fx.NopLogger,
		fx.Supply(Config()),

		server.Module(),

		fx.Provide(
			carddb.Load,
			service.NewCard,
			service.NewFilter,
			service.NewCollection,
			service.NewOverview,
		),
		fx.Provide(
			servicetest.NewFilterStore,
			servicetest.NewOwnedCardStore,
			servicetest.NewRevisionStore,
			servicetest.NewMemo,
			func() *servicetest.Publisher { return &servicetest.Publisher{} },
		),
		fx.Provide(
			func(s *servicetest.FilterStore) service.FilterStore { return s },
			func(s *servicetest.OwnedCardStore) service.OwnedCardStore { return s },
			func(s *servicetest.RevisionStore) service.RevisionStore { return s },
			func(p *servicetest.Publisher) service.EventPublisher { return p },
			func(m *servicetest.Memo) service.OverviewMemo { return m },
			func() service.SiteStatsProvider {
				return servicetest.SiteStats{CollectionCount: "1024", UsersCount: "128"}
			},
		),

		controllerv1.Module(),

		fx.Invoke(func() {
			log.Logger = log.Logger.Output(zerolog.NewTestWriter(t))
		}),
	}
}

// Populate starts the app and fills targets, stopping it when the test ends.
func Populate(t testing.TB, targets ...any) {
	opts := Options(t)
	opts = append(opts, fx.Populate(targets...))

	app := fxtest.New(t, opts...)
	app.RequireStart()
	t.Cleanup(app.RequireStop)
}
