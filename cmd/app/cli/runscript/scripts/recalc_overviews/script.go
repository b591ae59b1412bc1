package script_recalc_overviews

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"time"

	"github.com/felixge/fgprof"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"exusiai.dev/pocketstats/internal/pkg/async"
)

func run(ctx *cli.Context, deps CommandDeps, concurrency int, purge bool) error {
	http.DefaultServeMux.Handle("/debug/fgprof", fgprof.Handler())
	go func() {
		log.Print(http.ListenAndServe("127.0.0.1:6060", nil))
	}()

	start := time.Now()
	log.Info().Int("concurrency", concurrency).Bool("purge", purge).Msg("running script")

	if purge {
		if err := deps.OverviewService.Purge(ctx.Context); err != nil {
			return err
		}
	}

	ids, err := deps.OwnedCardRepo.GetCollectorIDs(ctx.Context)
	if err != nil {
		return errors.Wrap(err, "failed to list collectors")
	}

	err = async.Each(ctx.Context, ids, concurrency, func(ctx context.Context, id string) error {
		if err := deps.OverviewService.Warm(ctx, id); err != nil {
			return errors.Wrapf(err, "collector %s", id)
		}
		return nil
	})
	if err != nil {
		log.Error().Err(err).Msg("some overviews could not be recomputed")
		return errors.Wrap(err, "failed to run recalcOverviews")
	}

	log.Info().
		Int("collectors", len(ids)).
		Dur("took", time.Since(start)).
		Msg("script finished")

	return nil
}
