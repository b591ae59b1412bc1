package app

import (
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"exusiai.dev/pocketstats/cmd/app/cli/runscript"
	"exusiai.dev/pocketstats/cmd/app/search"
	"exusiai.dev/pocketstats/cmd/app/server"
	"exusiai.dev/pocketstats/internal/pkg/bininfo"
)

func Run() {
	app := &cli.App{
		Name:        "pocketstats",
		Description: "Collection statistics for a trading card game: completion, pull rates and the best pack to open next. Built with Go, fiber, bun and go.uber.org/fx. Uses NATS for collection events and Redis for settings and memoised overviews.",
		Version:     bininfo.Version,
		Commands: []*cli.Command{
			server.Command(),
			search.Command(),
			runscript.Command(),
		},
	}
	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("failed to run app")
	}
}
