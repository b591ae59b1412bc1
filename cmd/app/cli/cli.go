package cli

import (
	"context"

	"go.uber.org/fx"

	"exusiai.dev/pocketstats/internal/app"
	"exusiai.dev/pocketstats/internal/app/appcontext"
)

func Start(module fx.Option) error {
	return app.New(appcontext.Declare(appcontext.EnvCLI), module).Start(context.Background())
}
