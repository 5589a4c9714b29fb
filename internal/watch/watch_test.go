package watch_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"studyhub/internal/analytics"
	"studyhub/internal/kv"
	"studyhub/internal/model"
	"studyhub/internal/notify"
	"studyhub/internal/store"
	"studyhub/internal/watch"
)

func newStore(t *testing.T) (*store.Local, notify.Bus) {
	t.Helper()
	bus := notify.NewMemory()
	return store.NewLocal(kv.NewMemory(), bus, zap.NewNop()), bus
}

func recv[T any](t *testing.T, ch <-chan []T) []T {
	t.Helper()
	select {
	case items, ok := <-ch:
		require.True(t, ok, "updates channel closed")
		return items
	case <-time.After(time.Second):
		t.Fatal("no snapshot delivered")
		return nil
	}
}

func TestDocumentsWatcherDeliversInitialSnapshot(t *testing.T) {
	s, bus := newStore(t)
	ctx := context.Background()

	_, err := s.AddDocument(ctx, store.NewDocument{Title: "Seeded"})
	require.NoError(t, err)

	w := watch.Documents(ctx, s, bus, zap.NewNop())
	defer w.Close()

	docs := recv(t, w.Updates())
	require.Len(t, docs, 1)
	assert.Equal(t, "Seeded", docs[0].Title)
}

func TestDocumentsWatcherRefreshesOnChange(t *testing.T) {
	s, bus := newStore(t)
	ctx := context.Background()

	w := watch.Documents(ctx, s, bus, zap.NewNop())
	defer w.Close()

	assert.Empty(t, recv(t, w.Updates()))

	_, err := s.AddDocument(ctx, store.NewDocument{Title: "Fresh"})
	require.NoError(t, err)

	docs := recv(t, w.Updates())
	require.Len(t, docs, 1)
	assert.Equal(t, "Fresh", docs[0].Title)
}

func TestWatcherIgnoresUnrelatedKeys(t *testing.T) {
	s, bus := newStore(t)
	ctx := context.Background()

	w := watch.Coops(ctx, s, bus, zap.NewNop())
	defer w.Close()

	recv(t, w.Updates())

	_, err := s.AddDocument(ctx, store.NewDocument{Title: "Unrelated"})
	require.NoError(t, err)

	select {
	case coops := <-w.Updates():
		t.Fatalf("unexpected snapshot for unrelated mutation: %v", coops)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestFoldersWatcherRefreshesOnDocumentChange(t *testing.T) {
	s, bus := newStore(t)
	ctx := context.Background()

	folder, err := s.AddFolder(ctx, store.NewFolder{Name: "Week 1"})
	require.NoError(t, err)

	w := watch.Folders(ctx, s, bus, zap.NewNop())
	defer w.Close()

	first := recv(t, w.Updates())
	require.Len(t, first, 1)
	assert.Equal(t, 0, first[0].DocumentCount)

	_, err = s.AddDocumentsToFolder(ctx, folder.ID, []store.NewDocument{{Title: "Member"}})
	require.NoError(t, err)

	// Latest-wins: whatever snapshot arrives next must eventually show the
	// bumped count.
	deadline := time.After(time.Second)
	for {
		var folders []model.Folder
		select {
		case folders = <-w.Updates():
		case <-deadline:
			t.Fatal("never observed the updated folder count")
		}
		if len(folders) == 1 && folders[0].DocumentCount == 1 {
			return
		}
	}
}

func TestCommentsWatcherFiltersByDocument(t *testing.T) {
	s, bus := newStore(t)
	ctx := context.Background()

	w := watch.Comments(ctx, s, bus, zap.NewNop(), "doc-1")
	defer w.Close()

	recv(t, w.Updates())

	_, err := s.AddComment(ctx, "doc-2", "Sam", "other thread")
	require.NoError(t, err)
	_, err = s.AddComment(ctx, "doc-1", "Sam", "this thread")
	require.NoError(t, err)

	deadline := time.After(time.Second)
	for {
		var comments []model.Comment
		select {
		case comments = <-w.Updates():
		case <-deadline:
			t.Fatal("never observed the filtered comment")
		}
		if len(comments) == 1 && comments[0].Content == "this thread" {
			return
		}
	}
}

func TestDownloadsWatcherRefreshesOnIncrement(t *testing.T) {
	s, bus := newStore(t)
	ctx := context.Background()

	doc, err := s.AddDocument(ctx, store.NewDocument{Title: "Tracked"})
	require.NoError(t, err)

	w := watch.Downloads(ctx, s, bus, zap.NewNop())
	defer w.Close()

	assert.Empty(t, recv(t, w.Updates()))

	require.NoError(t, s.IncrementDownload(ctx, doc.ID))

	deadline := time.After(time.Second)
	for {
		var events []model.DownloadEvent
		select {
		case events = <-w.Updates():
		case <-deadline:
			t.Fatal("never observed the download event")
		}
		if len(events) == 1 && events[0].DocumentID == doc.ID {
			return
		}
	}
}

func TestAnalyticsWatcherRecomputesOnAnyMutation(t *testing.T) {
	s, bus := newStore(t)
	ctx := context.Background()

	w := watch.Analytics(ctx, s, bus, zap.NewNop(), analytics.Week)
	defer w.Close()

	first := <-w.Updates()
	require.NotNil(t, first)
	assert.Equal(t, 0, first.TotalDocuments)

	_, err := s.AddDocument(ctx, store.NewDocument{Title: "Counted", Course: "CS 2500"})
	require.NoError(t, err)

	deadline := time.After(time.Second)
	for {
		var snap *analytics.Analytics
		select {
		case snap = <-w.Updates():
		case <-deadline:
			t.Fatal("never observed the recomputed snapshot")
		}
		if snap.TotalDocuments == 1 {
			return
		}
	}
}

func TestWatcherCloseStopsUpdates(t *testing.T) {
	s, bus := newStore(t)
	ctx := context.Background()

	w := watch.Documents(ctx, s, bus, zap.NewNop())
	recv(t, w.Updates())
	w.Close()

	_, ok := <-w.Updates()
	assert.False(t, ok)
}
