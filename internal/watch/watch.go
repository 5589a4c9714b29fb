package watch

// Package watch turns change notifications into live collection views. A
// Collection holds the latest fetched snapshot of one store collection and
// re-fetches whenever a notification names one of its keys. Consumers read
// snapshots from Updates; delivery is coalesced latest-wins, so a slow
// consumer sees fewer, fresher snapshots rather than a backlog.

import (
	"context"

	"go.uber.org/zap"

	"studyhub/internal/analytics"
	"studyhub/internal/model"
	"studyhub/internal/notify"
	"studyhub/internal/store"
)

// Fetch loads the current snapshot.
type Fetch[T any] func(ctx context.Context) (T, error)

// Collection watches one store collection through the notification bus.
type Collection[T any] struct {
	fetch  Fetch[T]
	keys   map[string]struct{}
	log    *zap.Logger
	out    chan T
	cancel func()
	done   chan struct{}
}

// New starts a watcher over the given fetch function, reacting to
// notifications carrying any of keys. The initial snapshot is fetched
// immediately; ctx bounds every fetch the watcher issues.
func New[T any](ctx context.Context, bus notify.Bus, fetch Fetch[T], log *zap.Logger, keys ...string) *Collection[T] {
	keySet := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		keySet[k] = struct{}{}
	}

	ch, cancel := bus.Subscribe()
	c := &Collection[T]{
		fetch:  fetch,
		keys:   keySet,
		log:    log,
		out:    make(chan T, 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go c.run(ctx, ch)
	return c
}

// Updates yields snapshots, newest only. The channel closes when the watcher
// stops.
func (c *Collection[T]) Updates() <-chan T {
	return c.out
}

// Close stops the watcher and closes the updates channel.
func (c *Collection[T]) Close() {
	c.cancel()
	<-c.done
}

func (c *Collection[T]) run(ctx context.Context, ch <-chan notify.Change) {
	defer close(c.out)
	defer close(c.done)

	c.refresh(ctx)

	for {
		select {
		case change, ok := <-ch:
			if !ok {
				return
			}
			if _, watched := c.keys[change.Key]; !watched {
				continue
			}
			c.refresh(ctx)
		case <-ctx.Done():
			c.cancel()
			return
		}
	}
}

// refresh fetches and publishes a snapshot, replacing any undelivered one. A
// failed fetch keeps the previous snapshot current and is only logged; the
// next notification retries naturally.
func (c *Collection[T]) refresh(ctx context.Context) {
	snapshot, err := c.fetch(ctx)
	if err != nil {
		c.log.Warn("watch refresh failed", zap.Error(err))
		return
	}
	select {
	case c.out <- snapshot:
	default:
		select {
		case <-c.out:
		default:
		}
		c.out <- snapshot
	}
}

// Documents watches the document collection.
func Documents(ctx context.Context, s store.Store, bus notify.Bus, log *zap.Logger) *Collection[[]model.Document] {
	return New(ctx, bus, s.GetDocuments, log, store.KeyDocuments)
}

// Downloads watches the download-event log.
func Downloads(ctx context.Context, s store.Store, bus notify.Bus, log *zap.Logger) *Collection[[]model.DownloadEvent] {
	return New(ctx, bus, s.GetDownloadEvents, log, store.KeyDownloads)
}

// Folders watches the folder collection. Folder counts change on batch adds
// and cascades, so document mutations refresh this view too.
func Folders(ctx context.Context, s store.Store, bus notify.Bus, log *zap.Logger) *Collection[[]model.Folder] {
	return New(ctx, bus, s.GetFolders, log, store.KeyFolders, store.KeyDocuments)
}

// Comments watches comments on one document.
func Comments(ctx context.Context, s store.Store, bus notify.Bus, log *zap.Logger, documentID string) *Collection[[]model.Comment] {
	fetch := func(ctx context.Context) ([]model.Comment, error) {
		return s.GetComments(ctx, documentID)
	}
	return New(ctx, bus, fetch, log, store.KeyComments)
}

// Coops watches the co-op directory.
func Coops(ctx context.Context, s store.Store, bus notify.Bus, log *zap.Logger) *Collection[[]model.Coop] {
	return New(ctx, bus, s.GetCoops, log, store.KeyCoops)
}

// Analytics watches the computed analytics snapshot for one time range. Every
// collection feeds some analytics field, so any mutation triggers a recompute.
func Analytics(ctx context.Context, s store.Store, bus notify.Bus, log *zap.Logger, tr analytics.TimeRange) *Collection[*analytics.Analytics] {
	fetch := func(ctx context.Context) (*analytics.Analytics, error) {
		return s.GetAnalytics(ctx, tr)
	}
	return New(ctx, bus, fetch, log,
		store.KeyDocuments, store.KeyDownloads, store.KeyComments, store.KeyFolders, store.KeyCoops)
}
