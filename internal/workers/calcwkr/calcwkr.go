package calcwkr

import (
	"context"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/pocketstats/internal/app/appconfig"
	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/service"
)

const lockName = "pocketstats:lock:worker:sitestats"

// SiteStatsRefresher is implemented by service.SiteStats.
type SiteStatsRefresher interface {
	Refresh(ctx context.Context) (model.SiteStats, error)
}

// Locker is implemented by *redsync.Mutex.
type Locker interface {
	LockContext(ctx context.Context) error
}

type WorkerDeps struct {
	fx.In

	SiteStatsService *service.SiteStats
	RedSync          *redsync.Redsync
}

type Worker struct {
	// count counts batches worker has completed so far
	count int

	// interval describes the interval in-between different batches of job running
	interval time.Duration

	lock      Locker
	siteStats SiteStatsRefresher
}

func Start(conf *appconfig.Config, lc fx.Lifecycle, deps WorkerDeps) {
	if !conf.WorkerEnabled {
		log.Info().Str("evt.name", "worker.calc.disabled").Msg("calc worker disabled")
		return
	}

	w := &Worker{
		interval: conf.WorkerInterval,
		// only one instance refreshes per interval. the lock outlives the batch on purpose
		// and is left to expire
		lock: deps.RedSync.NewMutex(lockName,
			redsync.WithExpiry(conf.WorkerInterval),
			redsync.WithTries(1),
		),
		siteStats: deps.SiteStatsService,
	}

	var cancel context.CancelFunc
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			cancel = w.do()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return nil
		},
	})
}

func (w *Worker) do() context.CancelFunc {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			w.batch(ctx)

			select {
			case <-ticker.C:
			case <-ctx.Done():
				return
			}
		}
	}()

	return cancel
}

func (w *Worker) batch(ctx context.Context) {
	if err := w.lock.LockContext(ctx); err != nil {
		log.Debug().
			Err(err).
			Str("evt.name", "worker.calc.skipped").
			Int("count", w.count).
			Msg("another instance holds the worker lock, skipping batch")
		return
	}

	log.Info().
		Str("evt.name", "worker.calc.started").
		Int("count", w.count).
		Msg("worker batch started")

	log.Info().Str("service", "SiteStatsService").Msg("worker calculating")
	err := observeCalcDuration("SiteStatsService", func() error {
		_, err := w.siteStats.Refresh(ctx)
		return err
	})
	if err != nil {
		log.Warn().Err(err).Str("service", "SiteStatsService").Msg("worker calculation failed")
	} else {
		log.Debug().Str("service", "SiteStatsService").Msg("worker finished")
	}

	log.Info().
		Str("evt.name", "worker.calc.finished").
		Int("count", w.count).
		Msg("worker batch finished")

	w.count++
}

func (w *Worker) Count() int {
	return w.count
}
