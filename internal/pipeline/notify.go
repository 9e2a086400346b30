package pipeline

import (
	"context"
	"errors"
	"net/http"

	"wandlung/internal/logging"
	"wandlung/internal/notifications"
	"wandlung/internal/services"
)

func (p *Pipeline) notify(ctx context.Context, event notifications.Event, payload notifications.Payload) {
	if err := p.notifier.Publish(context.WithoutCancel(ctx), event, payload); err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, p.logger), "notification failed", "notification_failed",
			logging.String("event", string(event)),
			logging.Error(err),
			logging.String(logging.FieldImpact, "pipeline event not delivered"),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic"),
		)
	}
}

// notifyFailure reports server-side stage failures. Request errors such as
// unknown ids, duplicates and missing credentials are the caller's to see.
func (p *Pipeline) notifyFailure(ctx context.Context, stage, subject string, err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	if services.HTTPStatus(err) < http.StatusInternalServerError {
		return
	}
	p.notify(ctx, notifications.EventStageFailed, notifications.Payload{
		"stage":   stage,
		"subject": subject,
		"error":   err,
	})
}
