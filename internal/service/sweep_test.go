package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweepDiscardsOnlyStaleUploads(t *testing.T) {
	store := newTestStore(t)

	stale, err := store.Create(context.Background(), "uploads", "stale.mp3", "audio/mpeg")
	require.NoError(t, err)
	_, err = stale.Write([]byte("half written"))
	require.NoError(t, err)

	// Let the stale marker age past the TTL before the fresh one starts.
	ttl := 50 * time.Millisecond
	time.Sleep(2 * ttl)

	fresh, err := store.Create(context.Background(), "uploads", "fresh.mp3", "audio/mpeg")
	require.NoError(t, err)
	_, err = fresh.Write([]byte("still in flight"))
	require.NoError(t, err)

	sweeper := NewSweeper(store, time.Minute, ttl, 1000)
	defer sweeper.Stop()

	reclaimed := sweeper.Sweep(context.Background())
	assert.Equal(t, 1, reclaimed)

	pending, err := store.ListPending(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "fresh.mp3", pending[0].Filename)

	// The fresh upload still finalizes normally.
	_, err = fresh.Finalize(context.Background())
	require.NoError(t, err)
}

func TestSweepNoopWhenNothingStale(t *testing.T) {
	store := newTestStore(t)
	sweeper := NewSweeper(store, time.Minute, time.Hour, 1000)
	defer sweeper.Stop()

	assert.Equal(t, 0, sweeper.Sweep(context.Background()))
}

func TestSweepLoopRunsOnTicker(t *testing.T) {
	store := newTestStore(t)

	up, err := store.Create(context.Background(), "uploads", "orphan.mp3", "audio/mpeg")
	require.NoError(t, err)
	_, err = up.Write([]byte("orphaned bytes"))
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	sweeper := NewSweeper(store, 30*time.Millisecond, 10*time.Millisecond, 1000)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.Start(ctx)

	require.Eventually(t, func() bool {
		pending, err := store.ListPending(context.Background(), 0)
		return err == nil && len(pending) == 0
	}, 2*time.Second, 20*time.Millisecond)

	sweeper.Stop()
}
