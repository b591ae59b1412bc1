package script_recalc_overviews

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	"exusiai.dev/pocketstats/internal/repo"
	"exusiai.dev/pocketstats/internal/service"
)

type CommandDeps struct {
	fx.In

	OwnedCardRepo   *repo.OwnedCard
	OverviewService *service.Overview
}

func Command(depsFn func() (CommandDeps, error)) *cli.Command {
	return &cli.Command{
		Name:        "recalc_overviews",
		Description: "recompute and memoise the overview of every collector under their stored filters",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "maximum number of overviews computed at once",
				Value: 8,
			},
			&cli.BoolFlag{
				Name:  "purge",
				Usage: "drop every memoised overview before recomputing",
			},
		},
		Action: func(ctx *cli.Context) error {
			deps, err := depsFn()
			if err != nil {
				return err
			}
			return run(ctx, deps, ctx.Int("concurrency"), ctx.Bool("purge"))
		},
	}
}
