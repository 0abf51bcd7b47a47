// Package push delivers notifications through the FCM legacy HTTP gateway.
package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/config"
	"github.com/anthanhphan/go-music-streaming/internal/port"
	"github.com/anthanhphan/go-music-streaming/pkg/resilience"
)

const defaultTimeout = 5 * time.Second

// fcmMessage is the legacy HTTP send payload. Topic targets use the
// "/topics/<name>" form in the to field.
type fcmMessage struct {
	To           string            `json:"to"`
	Notification fcmNotification   `json:"notification"`
	Data         map[string]string `json:"data,omitempty"`
}

type fcmNotification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type fcmResponse struct {
	Success int `json:"success"`
	Failure int `json:"failure"`
}

// FCMNotifier sends through the gateway behind a circuit breaker, so a down
// or throttling gateway stops consuming request time quickly.
type FCMNotifier struct {
	endpoint  string
	serverKey string
	client    *http.Client
	breaker   *resilience.CircuitBreaker
}

var _ port.Notifier = (*FCMNotifier)(nil)

func NewFCMNotifier(cfg config.PushConfig) *FCMNotifier {
	timeout := time.Duration(cfg.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &FCMNotifier{
		endpoint:  cfg.Endpoint,
		serverKey: cfg.ServerKey,
		client:    &http.Client{Timeout: timeout},
		breaker: resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
			Name:             "fcm",
			FailureThreshold: 5,
			SuccessThreshold: 2,
			OpenTimeout:      30 * time.Second,
		}),
	}
}

func (n *FCMNotifier) SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error {
	return n.send(ctx, "/topics/"+topic, title, body, data)
}

func (n *FCMNotifier) SendToToken(ctx context.Context, token, title, body string, data map[string]string) error {
	return n.send(ctx, token, title, body, data)
}

func (n *FCMNotifier) send(ctx context.Context, target, title, body string, data map[string]string) error {
	payload, err := json.Marshal(fcmMessage{
		To:           target,
		Notification: fcmNotification{Title: title, Body: body},
		Data:         data,
	})
	if err != nil {
		return err
	}

	return n.breaker.Execute(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(payload))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "key="+n.serverKey)

		resp, err := n.client.Do(req)
		if err != nil {
			return fmt.Errorf("failed to reach push gateway: %w", err)
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("push gateway returned status %d", resp.StatusCode)
		}

		var result fcmResponse
		if err := json.NewDecoder(io.LimitReader(resp.Body, 64*1024)).Decode(&result); err != nil {
			return fmt.Errorf("failed to decode push gateway response: %w", err)
		}
		if result.Success == 0 && result.Failure > 0 {
			return fmt.Errorf("push gateway rejected all %d recipients", result.Failure)
		}
		return nil
	})
}
