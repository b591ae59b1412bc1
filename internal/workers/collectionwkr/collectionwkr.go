package collectionwkr

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/nats-io/nats.go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"

	"exusiai.dev/pocketstats/internal/app/appconfig"
	"exusiai.dev/pocketstats/internal/infra"
	"exusiai.dev/pocketstats/internal/model"
	"exusiai.dev/pocketstats/internal/pkg/jetstream"
	"exusiai.dev/pocketstats/internal/service"
)

const queueGroup = "pocketstats-collection"

type WorkerDeps struct {
	fx.In

	JetStream       nats.JetStreamContext
	OverviewService *service.Overview
}

type Worker struct {
	coalescer *Coalescer

	WorkerDeps
}

func Start(conf *appconfig.Config, lc fx.Lifecycle, deps WorkerDeps) {
	if !conf.WorkerEnabled {
		log.Info().Str("evt.name", "worker.collection.disabled").Msg("collection worker disabled")
		return
	}

	w := &Worker{
		coalescer:  NewCoalescer(conf.SearchDebounce, deps.OverviewService),
		WorkerDeps: deps,
	}

	ctx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			msgChan := make(chan *nats.Msg, 64)
			sub, err := w.JetStream.ChanQueueSubscribe(infra.CollectionSubjectPrefix+"*", queueGroup, msgChan,
				nats.AckWait(time.Second*30),
				nats.MaxAckPending(256),
			)
			if err != nil {
				log.Error().Err(err).Msg("failed to subscribe to " + infra.CollectionSubjectPrefix + "*")
				cancel()
				return err
			}

			go func() {
				defer func() {
					if err := sub.Unsubscribe(); err != nil {
						log.Warn().Err(err).Msg("failed to unsubscribe collection worker")
					}
				}()
				w.Consume(ctx, msgChan)
			}()
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			w.coalescer.Close()
			return nil
		},
	})
}

// Consume reads collection events until ctx is done. Events are acknowledged as soon as
// they are scheduled since warming is best effort.
func (w *Worker) Consume(ctx context.Context, msgChan <-chan *nats.Msg) {
	for {
		select {
		case msg := <-msgChan:
			w.handle(msg)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Worker) handle(msg *nats.Msg) {
	defer func() {
		if err := msg.Ack(); err != nil && !errors.Is(err, nats.ErrMsgNotBound) {
			log.Error().Err(err).Msg("failed to ack")
		}
	}()

	var evt model.CollectionUpdated
	if err := json.Unmarshal(msg.Data, &evt); err != nil || evt.CollectorID == "" {
		log.Warn().
			Err(err).
			Str("evt.name", "worker.collection.malformed").
			Str("msg.id", jetstream.Sequence(msg)).
			Msg("dropping malformed collection event")
		return
	}

	log.Debug().
		Str("evt.name", "worker.collection.received").
		Str("msg.id", jetstream.Sequence(msg)).
		Str("event_id", evt.EventID).
		Str("collector_id", evt.CollectorID).
		Int64("revision", evt.Revision).
		Msg("collection event received")

	w.coalescer.Add(evt.CollectorID, evt.Revision)
}
