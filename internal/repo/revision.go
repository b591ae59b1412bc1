package repo

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// Revision keeps a per-collector counter bumped on every collection write. Anything
// derived from a collection is keyed by it.
type Revision struct {
	client *redis.Client
}

func NewRevision(client *redis.Client) *Revision {
	return &Revision{client: client}
}

func revisionKey(collectorID string) string {
	return "revision:" + collectorID
}

// Current returns 0 for a collector that never wrote.
func (r *Revision) Current(ctx context.Context, collectorID string) (int64, error) {
	rev, err := r.client.Get(ctx, revisionKey(collectorID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	} else if err != nil {
		return 0, errors.Wrap(err, "failed to get collection revision")
	}
	return rev, nil
}

func (r *Revision) Bump(ctx context.Context, collectorID string) (int64, error) {
	rev, err := r.client.Incr(ctx, revisionKey(collectorID)).Result()
	if err != nil {
		return 0, errors.Wrap(err, "failed to bump collection revision")
	}
	return rev, nil
}
