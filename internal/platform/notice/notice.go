// Package notice delivers user-facing notices (the dashboard's toasts) over
// an explicit publish/subscribe hub. Subscriptions are tied to a connection
// and always cleaned up on unregister, so an abandoned view can never leak a
// listener.
package notice

import "time"

// Level classifies a notice for presentation.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
)

// Notice is a single user-facing message.
type Notice struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	Topic     string    `json:"topic"`
	Timestamp time.Time `json:"timestamp"`
}

// Notifier publishes notices to a topic. Handlers depend on this interface
// so tests can capture notices without a hub.
type Notifier interface {
	Notify(topic string, level Level, message string)
}

// TopicFor returns the per-user notice topic.
func TopicFor(userID string) string {
	return "user:" + userID
}
