package calcwkr

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/stretchr/testify/assert"

	"exusiai.dev/pocketstats/internal/model"
)

type countingRefresher struct {
	calls atomic.Int32
}

func (r *countingRefresher) Refresh(context.Context) (model.SiteStats, error) {
	r.calls.Add(1)
	return model.SiteStats{CollectionCount: "1", UsersCount: "1"}, nil
}

type fakeLocker struct {
	held bool
}

func (l *fakeLocker) LockContext(context.Context) error {
	if l.held {
		return redsync.ErrFailed
	}
	return nil
}

func TestBatch(t *testing.T) {
	r := &countingRefresher{}
	w := &Worker{interval: time.Hour, lock: &fakeLocker{}, siteStats: r}

	w.batch(context.Background())
	assert.Equal(t, int32(1), r.calls.Load())
	assert.Equal(t, 1, w.Count())
}

func TestBatchSkippedWhenLocked(t *testing.T) {
	r := &countingRefresher{}
	w := &Worker{interval: time.Hour, lock: &fakeLocker{held: true}, siteStats: r}

	w.batch(context.Background())
	assert.Zero(t, r.calls.Load())
	assert.Zero(t, w.Count())
}

func TestDoRunsImmediately(t *testing.T) {
	r := &countingRefresher{}
	w := &Worker{interval: time.Hour, lock: &fakeLocker{}, siteStats: r}

	cancel := w.do()
	defer cancel()

	assert.Eventually(t, func() bool { return r.calls.Load() == 1 }, time.Second, time.Millisecond*5)
}
