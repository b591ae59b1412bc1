package service

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"exusiai.dev/pocketstats/internal/app/appconfig"
	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/bininfo"
	"exusiai.dev/pocketstats/internal/pkg/cache"
	"exusiai.dev/pocketstats/internal/pkg/observability"
)

var ErrCannotGetFromRemote = errors.New("cannot get from remote")

const (
	siteStatsTTL        = time.Hour
	siteStatsFailureTTL = time.Minute
)

type SiteStats struct {
	url      string
	attempts uint
	delay    time.Duration

	ttl        time.Duration
	failureTTL time.Duration

	client *http.Client
	cache  *cache.Singular[model.SiteStats]
}

func NewSiteStats(conf *appconfig.Config) *SiteStats {
	return &SiteStats{
		url:      conf.SiteStatsURL,
		attempts: conf.SiteStatsRetryAttempts,
		delay:    time.Second,

		ttl:        siteStatsTTL,
		failureTTL: siteStatsFailureTTL,
		client: &http.Client{
			Timeout: conf.SiteStatsTimeout,
		},
		cache: cache.NewSingular[model.SiteStats]("siteStats"),
	}
}

// Get never fails: when the counters cannot be fetched both are empty strings.
func (s *SiteStats) Get(ctx context.Context) model.SiteStats {
	v, err := s.cache.MutexGetSet(func() (model.SiteStats, error) {
		return s.Fetch(ctx)
	}, s.ttl)
	if err != nil {
		// remember the failure for a while so that a dead endpoint is not hammered
		s.cache.Set(model.SiteStats{}, s.failureTTL)
		return model.SiteStats{}
	}
	return v
}

// Refresh fetches the counters and replaces the cached ones on success.
func (s *SiteStats) Refresh(ctx context.Context) (model.SiteStats, error) {
	v, err := s.Fetch(ctx)
	if err != nil {
		return v, err
	}
	s.cache.Set(v, s.ttl)
	return v, nil
}

func (s *SiteStats) Fetch(ctx context.Context) (model.SiteStats, error) {
	v, err := retry.DoWithData(
		func() (model.SiteStats, error) {
			return s.fetchOnce(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(s.attempts),
		retry.Delay(s.delay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Debug().
				Err(err).
				Str("evt.name", "sitestats.retry").
				Uint("attempt", n+1).
				Msg("retrying site stats fetch")
		}),
	)
	if err != nil {
		observability.SiteStatsFetchFailures.Inc()
		log.Warn().
			Err(err).
			Str("evt.name", "sitestats.fetch_failed").
			Str("url", s.url).
			Msg("failed to fetch site stats")
		return model.SiteStats{}, err
	}
	return v, nil
}

func (s *SiteStats) fetchOnce(ctx context.Context) (model.SiteStats, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, http.NoBody)
	if err != nil {
		return model.SiteStats{}, retry.Unrecoverable(err)
	}
	req.Header.Set("User-Agent", bininfo.UserAgent())
	req.Header.Set("Accept", "application/json")

	res, err := s.client.Do(req)
	if err != nil {
		return model.SiteStats{}, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return model.SiteStats{}, errors.Wrapf(ErrCannotGetFromRemote, "unexpected status %d", res.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return model.SiteStats{}, err
	}

	return ParseSiteStats(body)
}

// ParseSiteStats reads collectionCount and usersCount, given either as numbers or strings.
func ParseSiteStats(body []byte) (model.SiteStats, error) {
	if !gjson.ValidBytes(body) {
		return model.SiteStats{}, errors.Wrap(ErrCannotGetFromRemote, "site stats document is not valid JSON")
	}

	doc := gjson.ParseBytes(body)
	collections := doc.Get("collectionCount")
	users := doc.Get("usersCount")
	if !collections.Exists() || !users.Exists() {
		return model.SiteStats{}, errors.Wrap(ErrCannotGetFromRemote, "site stats document lacks counters")
	}

	return model.SiteStats{
		CollectionCount: collections.String(),
		UsersCount:      users.String(),
	}, nil
}
