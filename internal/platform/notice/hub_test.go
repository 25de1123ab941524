package notice

import (
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestNotify_ReachesTopicSubscribers(t *testing.T) {
	h := NewHub(zerolog.Nop())
	sub := h.Subscribe(TopicFor("u1"))
	defer sub.Close()

	h.Notify(TopicFor("u1"), LevelSuccess, "Appointment confirmed")

	raw, ok := <-sub.C()
	if !ok {
		t.Fatal("channel closed unexpectedly")
	}
	var n Notice
	if err := json.Unmarshal(raw, &n); err != nil {
		t.Fatalf("unmarshal notice: %v", err)
	}
	if n.Level != LevelSuccess || n.Message != "Appointment confirmed" {
		t.Errorf("unexpected notice: %+v", n)
	}
}

func TestNotify_DoesNotCrossTopics(t *testing.T) {
	h := NewHub(zerolog.Nop())
	mine := h.Subscribe(TopicFor("u1"))
	theirs := h.Subscribe(TopicFor("u2"))
	defer mine.Close()
	defer theirs.Close()

	h.Notify(TopicFor("u2"), LevelError, "only for u2")

	select {
	case msg := <-mine.C():
		t.Errorf("u1 received a notice meant for u2: %s", msg)
	default:
	}
	if _, ok := <-theirs.C(); !ok {
		t.Error("u2 did not receive its notice")
	}
}

func TestClose_CleansUpSubscription(t *testing.T) {
	h := NewHub(zerolog.Nop())
	sub := h.Subscribe(TopicFor("u1"), "broadcast")

	if h.SubscriberCount() != 1 || h.TopicCount("broadcast") != 1 {
		t.Fatalf("expected 1 subscriber on both topics")
	}

	sub.Close()

	if h.SubscriberCount() != 0 {
		t.Errorf("expected 0 subscribers after close, got %d", h.SubscriberCount())
	}
	if h.TopicCount(TopicFor("u1")) != 0 || h.TopicCount("broadcast") != 0 {
		t.Error("expected topic memberships removed on close")
	}
	if _, ok := <-sub.C(); ok {
		t.Error("expected feed channel closed after Close")
	}
}

func TestClose_IsIdempotent(t *testing.T) {
	h := NewHub(zerolog.Nop())
	sub := h.Subscribe(TopicFor("u1"))
	sub.Close()
	sub.Close() // must not panic on double close
}

func TestNotify_SkipsSlowSubscriber(t *testing.T) {
	h := NewHub(zerolog.Nop())
	sub := h.Subscribe(TopicFor("u1"))
	defer sub.Close()

	// Fill the buffer without draining; further notices must not block.
	for i := 0; i < 100; i++ {
		h.Notify(TopicFor("u1"), LevelInfo, "spam")
	}
}
