package runscript

import (
	"github.com/urfave/cli/v2"
	"go.uber.org/fx"

	cliapp "exusiai.dev/pocketstats/cmd/app/cli"
	script_recalc_overviews "exusiai.dev/pocketstats/cmd/app/cli/runscript/scripts/recalc_overviews"
)

func depsFn[T any]() func() (T, error) {
	return func() (T, error) {
		var deps T
		err := cliapp.Start(fx.Populate(&deps))
		return deps, err
	}
}

func Command() *cli.Command {
	return &cli.Command{
		Name:        "run-script",
		Description: "run maintenance go scripts",
		Subcommands: []*cli.Command{
			script_recalc_overviews.Command(depsFn[script_recalc_overviews.CommandDeps]()),
		},
	}
}
