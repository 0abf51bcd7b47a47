package port

import "context"

//go:generate mockgen -destination=../service/mocks/notifier_mock.go -package=mocks -source=notifier.go

// Well-known push topics.
const (
	TopicAllUsers     = "all_users"
	TopicAdminReviews = "admin_notifications"
)

// Notifier delivers push notifications. Implementations talk to an external
// gateway; callers must treat delivery as best-effort.
type Notifier interface {
	SendToTopic(ctx context.Context, topic, title, body string, data map[string]string) error
	SendToToken(ctx context.Context, token, title, body string, data map[string]string) error
}
