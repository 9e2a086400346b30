package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"wandlung/internal/config"
)

const userAgent = "wandlung/0.1"

// Event names a pipeline milestone.
type Event string

const (
	EventVideoDownloaded        Event = "video_downloaded"
	EventTranscriptionCompleted Event = "transcription_completed"
	EventTranslationCompleted   Event = "translation_completed"
	EventStageFailed            Event = "stage_failed"
	EventTest                   Event = "test"
)

// Payload carries the values rendered into a message. Missing keys render as
// empty strings.
type Payload map[string]any

// Service publishes pipeline events.
type Service interface {
	Publish(ctx context.Context, event Event, payload Payload) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeoutSeconds) * time.Second
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

func (n *ntfyService) Publish(ctx context.Context, event Event, payload Payload) error {
	msg, ok := format(event, payload)
	if !ok {
		return nil
	}
	return n.send(ctx, msg)
}

func format(event Event, payload Payload) (message, bool) {
	switch event {
	case EventVideoDownloaded:
		return message{
			title: "wandlung - Downloaded",
			body:  fmt.Sprintf("Downloaded: %s", payload.text("title")),
			tags:  []string{"wandlung", "download"},
		}, true
	case EventTranscriptionCompleted:
		return message{
			title: "wandlung - Transcribed",
			body:  fmt.Sprintf("Transcribed %s (%s, %s cues)", payload.text("title"), payload.text("language"), payload.text("cues")),
			tags:  []string{"wandlung", "transcribe", "completed"},
		}, true
	case EventTranslationCompleted:
		return message{
			title: "wandlung - Translated",
			body:  fmt.Sprintf("Translated %s into %s (%s cues)", payload.text("title"), payload.text("language"), payload.text("cues")),
			tags:  []string{"wandlung", "translate", "completed"},
		}, true
	case EventStageFailed:
		var b strings.Builder
		b.WriteString("Error")
		if stage := payload.text("stage"); stage != "" {
			b.WriteString(" during ")
			b.WriteString(stage)
		}
		if subject := payload.text("subject"); subject != "" {
			b.WriteString(" of ")
			b.WriteString(subject)
		}
		b.WriteString(": ")
		if detail := payload.text("error"); detail != "" {
			b.WriteString(detail)
		} else {
			b.WriteString("unknown")
		}
		return message{
			title:    "wandlung - Error",
			body:     b.String(),
			tags:     []string{"wandlung", "error"},
			priority: "high",
		}, true
	case EventTest:
		return message{
			title:    "wandlung - Test",
			body:     testBody(payload.text("host")),
			tags:     []string{"wandlung", "test"},
			priority: "low",
		}, true
	default:
		return message{}, false
	}
}

func (p Payload) text(key string) string {
	value, ok := p[key]
	if !ok || value == nil {
		return ""
	}
	if err, ok := value.(error); ok {
		return strings.TrimSpace(err.Error())
	}
	return strings.TrimSpace(fmt.Sprint(value))
}

func (n *ntfyService) send(ctx context.Context, msg message) error {
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

type noopService struct{}

func (noopService) Publish(context.Context, Event, Payload) error { return nil }

func testBody(host string) string {
	if host == "" {
		return "Notification system test"
	}
	return "Notification system test from " + host
}
