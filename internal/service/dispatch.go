package service

import (
	"context"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/go-music-streaming/pkg/resilience"
	"github.com/anthanhphan/gosdk/logger"
)

const (
	dispatchQueueSize = 256
	dispatchTimeout   = 10 * time.Second
)

// NotificationDispatcher fans pushes out through a worker pool. Callers never
// block on the gateway and never see its failures; delivery is best-effort.
type NotificationDispatcher struct {
	notifier port.Notifier
	pool     *resilience.WorkerPool
	enabled  bool
}

var _ port.Dispatcher = (*NotificationDispatcher)(nil)

func NewDispatcher(notifier port.Notifier, workers int, enabled bool) *NotificationDispatcher {
	if workers <= 0 {
		workers = 4
	}
	return &NotificationDispatcher{
		notifier: notifier,
		pool:     resilience.NewWorkerPool(workers, dispatchQueueSize),
		enabled:  enabled && notifier != nil,
	}
}

func (d *NotificationDispatcher) NotifyTopic(topic, title, body string, data map[string]string) {
	d.dispatch("topic", topic, func(ctx context.Context) error {
		return d.notifier.SendToTopic(ctx, topic, title, body, data)
	})
}

func (d *NotificationDispatcher) NotifyToken(token, title, body string, data map[string]string) {
	d.dispatch("token", "device", func(ctx context.Context) error {
		return d.notifier.SendToToken(ctx, token, title, body, data)
	})
}

func (d *NotificationDispatcher) dispatch(kind, target string, send func(context.Context) error) {
	if !d.enabled {
		return
	}

	err := d.pool.Submit(context.Background(), func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		if err := send(ctx); err != nil {
			logger.Warnw("Push delivery failed", "kind", kind, "target", target, "error", err.Error())
		}
	})
	if err != nil {
		logger.Warnw("Push dropped", "kind", kind, "target", target, "error", err.Error())
	}
}

// Close drains queued notifications and stops the workers.
func (d *NotificationDispatcher) Close() {
	d.pool.Close()
	d.pool.Wait()
}
