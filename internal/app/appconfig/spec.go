package appconfig

import (
	"time"

	"exusiai.dev/pocketstats/internal/app/appcontext"
)

type ConfigSpec struct {
	// ServiceAddress is the listen address would listen on for serving normal service requests.
	ServiceAddress string `required:"true" split_words:"true" default:"localhost:9020"`

	// LogJsonStdout is whether to log JSON logs (instead of pretty-print logs) to stdout for the ease of log collection.
	LogJsonStdout bool `split_words:"true" default:"false"`

	// TrustedProxies is a list of trusted proxies that are trusted to report a real IP via the X-Forwarded-For header.
	TrustedProxies []string `required:"true" split_words:"true" default:"::1,127.0.0.1,10.0.0.0/8"`

	// DevMode to indicate development mode. When true, the program would spin up utilities for debugging and
	// provide a more contextual message when encountered a panic. See internal/server/httpserver/http.go for the
	// actual implementation details.
	DevMode bool `split_words:"true"`

	// TracingEnabled to indicate whether to enable OpenTelemetry tracing of HTTP requests and database queries.
	TracingEnabled bool `split_words:"true"`

	// TracingExporters to indicate which exporters to use for tracing.
	// Valid values are: jaeger, otlp, stdout (for debug).
	TracingExporters []string `split_words:"true" default:"jaeger"`

	// TracingSampleRate to indicate the sampling rate for tracing.
	// Valid values are: 0.0 (disabled), 1.0 (all traces), or a value between 0.0 and 1.0 (sampling rate).
	TracingSampleRate float64 `split_words:"true" default:"1.0"`

	// infrastructure components connection instructions

	// PostgresDSN is the data source name for the PostgreSQL database. See
	// https://bun.uptrace.dev/postgres/#pgdriver for more details on how to construct a PostgreSQL DSN.
	PostgresDSN string `required:"true" split_words:"true"`

	PostgresMaxOpenConns    int           `split_words:"true" default:"10"`
	PostgresMaxIdleConns    int           `split_words:"true" default:"2"`
	PostgresConnMaxLifeTime time.Duration `split_words:"true" default:"5m"`
	PostgresConnMaxIdleTime time.Duration `split_words:"true" default:"5m"`

	BunDebugVerbose bool `split_words:"true"`

	// NatsURL is the URL of the NATS server. See https://pkg.go.dev/github.com/nats-io/nats.go#Connect
	// for more information on how to construct a NATS URL.
	NatsURL string `required:"true" split_words:"true" default:"nats://127.0.0.1:4222"`

	// RedisURL is the URL of the Redis server. See https://pkg.go.dev/github.com/redis/go-redis/v9#ParseURL
	// for more information on how to construct a Redis URL.
	RedisURL string `required:"true" split_words:"true" default:"redis://127.0.0.1:6379/2"`

	// SentryDSN is the DSN of the Sentry server. See https://pkg.go.dev/github.com/getsentry/sentry-go#ClientOptions
	SentryDSN string `split_words:"true"`

	// HTTPServerShutdownTimeout is the timeout for the HTTP server to shut down gracefully.
	HTTPServerShutdownTimeout time.Duration `required:"true" split_words:"true" default:"60s"`

	// SiteStatsURL is where the public collection and user counters are fetched from.
	// The document is expected to carry `collectionCount` and `usersCount`, as numbers or strings.
	SiteStatsURL string `required:"true" split_words:"true" default:"https://vcwloujmsjuacqpwthee.supabase.co/storage/v1/object/public/stats/stats.json"`

	// SiteStatsTimeout bounds a single fetch attempt of SiteStatsURL.
	SiteStatsTimeout time.Duration `split_words:"true" default:"5s"`

	// SiteStatsRetryAttempts is the number of attempts made before site stats are reported as unknown.
	SiteStatsRetryAttempts uint `split_words:"true" default:"3"`

	// WorkerEnabled is a flag to indicate whether to enable the workers.
	WorkerEnabled bool `split_words:"true"`

	// WorkerInterval describes the interval in-between site stats refreshes.
	WorkerInterval time.Duration `required:"true" split_words:"true" default:"10m"`

	// SearchDebounce is the quiet window of the search input and of the collection update coalescing.
	SearchDebounce time.Duration `split_words:"true" default:"500ms"`

	// OverviewCacheTTL is how long a memoised overview is kept. Memo keys already change with the
	// collection revision and the filters, so this only bounds memory use.
	OverviewCacheTTL time.Duration `split_words:"true" default:"24h"`
}

type Config struct {
	// ConfigSpec is the configuration specification injected to the config.
	ConfigSpec

	// AppContext is the application context
	AppContext appcontext.Ctx
}
