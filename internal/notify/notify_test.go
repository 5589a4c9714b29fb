package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func waitChange(t *testing.T, ch <-chan Change) Change {
	t.Helper()
	select {
	case c, ok := <-ch:
		require.True(t, ok, "channel closed before a change arrived")
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
		return Change{}
	}
}

func TestMemory_PublishReachesAllSubscribers(t *testing.T) {
	bus := NewMemory()
	defer bus.Close()

	ch1, cancel1 := bus.Subscribe()
	defer cancel1()
	ch2, cancel2 := bus.Subscribe()
	defer cancel2()

	require.NoError(t, bus.Publish(context.Background(), "documents"))

	assert.Equal(t, "documents", waitChange(t, ch1).Key)
	assert.Equal(t, "documents", waitChange(t, ch2).Key)
}

func TestMemory_CancelStopsDelivery(t *testing.T) {
	bus := NewMemory()
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	cancel()

	_, ok := <-ch
	assert.False(t, ok, "cancelled subscription channel should be closed")

	// Publishing after cancel must not panic.
	require.NoError(t, bus.Publish(context.Background(), "comments"))
}

func TestMemory_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewMemory()
	defer bus.Close()

	_, cancel := bus.Subscribe()
	defer cancel()

	// Far more publishes than the subscriber buffer holds.
	for i := 0; i < subscriberBuffer*4; i++ {
		require.NoError(t, bus.Publish(context.Background(), "downloads"))
	}
}

func TestRedis_RelaysAcrossBuses(t *testing.T) {
	mr := miniredis.RunT(t)

	clientA := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer clientA.Close()
	clientB := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer clientB.Close()

	busA := NewRedis(clientA, "studyhub:changes", zap.NewNop())
	defer busA.Close()
	busB := NewRedis(clientB, "studyhub:changes", zap.NewNop())
	defer busB.Close()

	chB, cancelB := busB.Subscribe()
	defer cancelB()

	// Give busB's receive loop a moment to establish its subscription.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, busA.Publish(context.Background(), "folders"))
	assert.Equal(t, "folders", waitChange(t, chB).Key)
}

func TestRedis_DoesNotEchoOwnPublishes(t *testing.T) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	bus := NewRedis(client, "studyhub:changes", zap.NewNop())
	defer bus.Close()

	ch, cancel := bus.Subscribe()
	defer cancel()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, bus.Publish(context.Background(), "coops"))

	// Exactly one delivery: the synchronous local fanout. The relayed copy
	// is filtered by origin.
	assert.Equal(t, "coops", waitChange(t, ch).Key)
	select {
	case c := <-ch:
		t.Fatalf("unexpected second delivery: %+v", c)
	case <-time.After(300 * time.Millisecond):
	}
}
