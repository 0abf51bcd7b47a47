package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/anthanhphan/go-music-streaming/internal/service/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestDispatcherDeliversAsync(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)

	delivered := make(chan string, 2)
	notifier.EXPECT().SendToTopic(gomock.Any(), "all_users", "title", "body", gomock.Any()).
		DoAndReturn(func(ctx context.Context, topic, title, body string, data map[string]string) error {
			delivered <- "topic:" + topic
			return nil
		})
	notifier.EXPECT().SendToToken(gomock.Any(), "device-1", "title", "body", gomock.Any()).
		DoAndReturn(func(ctx context.Context, token, title, body string, data map[string]string) error {
			delivered <- "token:" + token
			return nil
		})

	d := NewDispatcher(notifier, 2, true)
	defer d.Close()

	d.NotifyTopic("all_users", "title", "body", nil)
	d.NotifyToken("device-1", "title", "body", nil)

	got := map[string]bool{}
	for i := 0; i < 2; i++ {
		select {
		case m := <-delivered:
			got[m] = true
		case <-time.After(2 * time.Second):
			t.Fatal("notification was not delivered")
		}
	}
	require.True(t, got["topic:all_users"])
	require.True(t, got["token:device-1"])
}

func TestDispatcherDisabledSendsNothing(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)
	// No expectations: any send would fail the test.

	d := NewDispatcher(notifier, 1, false)
	d.NotifyTopic("all_users", "t", "b", nil)
	d.NotifyToken("tok", "t", "b", nil)
	d.Close()
}

func TestDispatcherSwallowsSendFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	notifier := mocks.NewMockNotifier(ctrl)

	done := make(chan struct{})
	notifier.EXPECT().SendToTopic(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, topic, title, body string, data map[string]string) error {
			close(done)
			return errors.New("gateway unavailable")
		})

	d := NewDispatcher(notifier, 1, true)
	defer d.Close()

	// Must not panic or block the caller.
	d.NotifyTopic("all_users", "t", "b", nil)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("send was never attempted")
	}
}
