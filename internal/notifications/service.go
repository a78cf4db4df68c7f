package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"stylus/internal/config"
)

const userAgent = "Stylus/0.1.0"

// Event identifies a pipeline milestone that can be pushed to the user.
type Event string

const (
	// EventBatchStarted fires when a reconciliation batch begins.
	EventBatchStarted Event = "batch_started"
	// EventBatchCompleted fires when a reconciliation batch finishes.
	EventBatchCompleted Event = "batch_completed"
	// EventTrackFailed fires for a track that could not be reconciled.
	EventTrackFailed Event = "track_failed"
	// EventTest exercises the configured topic end to end.
	EventTest Event = "test"
)

// Payload carries event-specific values consumed by the formatters.
type Payload map[string]any

// Service delivers pipeline events to the user. Implementations decide which
// events are worth a push; suppressed events return nil.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type message struct {
	title    string
	body     string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

// Publish formats the event and posts it to the configured topic. Events too
// noisy for push delivery are dropped without contacting the server.
func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := formatEvent(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func formatEvent(event Event, payload Payload) (message, bool) {
	switch event {
	case EventBatchCompleted:
		succeeded := payload.intValue("succeeded")
		failed := payload.intValue("failed")
		duration := payload.durationValue("duration").Round(time.Second)
		if duration < 0 {
			duration = 0
		}

		if failed == 0 {
			return message{
				title: "Stylus - Batch Complete",
				body:  fmt.Sprintf("✅ Reconciled %d tracks in %s", succeeded, duration),
				tags:  []string{"stylus", "batch", "completed"},
			}, true
		}
		return message{
			title:    "Stylus - Batch Complete (with errors)",
			body:     fmt.Sprintf("Reconciled %d tracks, %d failed in %s", succeeded, failed, duration),
			tags:     []string{"stylus", "batch", "completed"},
			priority: "high",
		}, true
	case EventTrackFailed:
		trackTitle := payload.stringValue("trackTitle")
		if trackTitle == "" {
			trackTitle = "unknown track"
		}
		reason := payload.stringValue("error")
		if reason == "" {
			reason = "unknown"
		}
		return message{
			title:    "Stylus - Track Failed",
			body:     fmt.Sprintf("❌ %s: %s", trackTitle, reason),
			tags:     []string{"stylus", "track", "error"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "Stylus - Test",
			body:     "🧪 Notification system test",
			tags:     []string{"stylus", "test"},
			priority: "low",
		}, true
	default:
		// Batch-started pushes arrive while the user is still at the
		// terminal; they carry no information the completion push lacks.
		return message{}, false
	}
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(msg.body))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if msg.title != "" {
		req.Header.Set("Title", msg.title)
	}
	if len(msg.tags) > 0 {
		req.Header.Set("Tags", strings.Join(msg.tags, ","))
	}
	if msg.priority != "" && msg.priority != "default" {
		req.Header.Set("Priority", msg.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (p Payload) stringValue(key string) string {
	if p == nil {
		return ""
	}
	switch typed := p[key].(type) {
	case string:
		return strings.TrimSpace(typed)
	case error:
		return strings.TrimSpace(typed.Error())
	case fmt.Stringer:
		return strings.TrimSpace(typed.String())
	}
	return ""
}

func (p Payload) intValue(key string) int {
	if p == nil {
		return 0
	}
	switch typed := p[key].(type) {
	case int:
		return typed
	case int64:
		return int(typed)
	}
	return 0
}

func (p Payload) durationValue(key string) time.Duration {
	if p == nil {
		return 0
	}
	if typed, ok := p[key].(time.Duration); ok {
		return typed
	}
	return 0
}

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }
