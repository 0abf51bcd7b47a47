package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/go-music-streaming/pkg/resilience"
	"github.com/anthanhphan/gosdk/logger"
)

// Sweeper periodically discards uploads that started but never finalized,
// then compacts the store once enough segments have accumulated. This is the
// only reconciliation the store gets; everything else is best-effort at call
// sites.
type Sweeper struct {
	store    port.BlobStore
	pool     *resilience.WorkerPool
	interval time.Duration
	ttl      time.Duration

	// compactAfter is the segment count that triggers compaction following
	// a sweep that reclaimed something.
	compactAfter int

	started  atomic.Bool
	stopOnce sync.Once
	stopCh   chan struct{}
	doneCh   chan struct{}
}

func NewSweeper(store port.BlobStore, interval, ttl time.Duration, compactAfter int) *Sweeper {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if compactAfter <= 0 {
		compactAfter = 4
	}
	return &Sweeper{
		store:        store,
		pool:         resilience.NewWorkerPool(2, 64),
		interval:     interval,
		ttl:          ttl,
		compactAfter: compactAfter,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

// Start runs the sweep loop until Stop is called or ctx is canceled.
func (s *Sweeper) Start(ctx context.Context) {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.doneCh)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep(ctx)
			case <-ctx.Done():
				return
			case <-s.stopCh:
				return
			}
		}
	}()
}

// Sweep discards every pending upload older than the TTL and reports how many
// were reclaimed.
func (s *Sweeper) Sweep(ctx context.Context) int {
	stale, err := s.store.ListPending(ctx, s.ttl)
	if err != nil {
		logger.Errorw("Pending sweep listing failed", "error", err.Error())
		return 0
	}
	if len(stale) == 0 {
		return 0
	}

	var wg sync.WaitGroup
	var reclaimed atomic.Int64
	for _, p := range stale {
		p := p
		wg.Add(1)
		err := s.pool.Submit(ctx, func() {
			defer wg.Done()
			if err := s.store.DiscardPending(ctx, p); err != nil {
				logger.Warnw("Failed to discard stale upload",
					"bucket", p.Bucket, "file_id", p.ID, "error", err.Error())
				return
			}
			reclaimed.Add(1)
		})
		if err != nil {
			wg.Done()
			logger.Warnw("Sweep job rejected", "file_id", p.ID, "error", err.Error())
		}
	}
	wg.Wait()

	n := int(reclaimed.Load())
	if n > 0 && s.store.SegmentCount() >= s.compactAfter {
		if err := s.store.Compact(); err != nil {
			logger.Errorw("Post-sweep compaction failed", "error", err.Error())
		}
	}
	if n > 0 {
		logger.Infow("Pending sweep done", "stale", len(stale), "reclaimed", n)
	}
	return n
}

// Stop halts the loop and waits for in-flight discards.
func (s *Sweeper) Stop() {
	s.stopOnce.Do(func() { close(s.stopCh) })
	if s.started.Load() {
		<-s.doneCh
	}
	s.pool.Close()
	s.pool.Wait()
}
