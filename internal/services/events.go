package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/duedesk/apiserver/internal/mq"
	"github.com/duedesk/apiserver/types"
	"go.uber.org/zap"
)

// Publisher is the subset of *mq.MQ used to emit domain events.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// EventPublisher emits domain events after successful mutations. A nil
// *EventPublisher, or one without a publisher, drops events.
type EventPublisher struct {
	publisher Publisher
	channel   string
	log       *zap.Logger
	now       func() time.Time
}

func NewEventPublisher(publisher Publisher, channel string, log *zap.Logger) *EventPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &EventPublisher{
		publisher: publisher,
		channel:   channel,
		log:       log,
		now:       time.Now,
	}
}

// Publish sends an event. Failures are logged and otherwise ignored.
func (p *EventPublisher) Publish(ctx context.Context, eventType, actor string, data any) {
	if p == nil || p.publisher == nil {
		return
	}

	payload, err := json.Marshal(data)
	if err != nil {
		p.log.Error("encode event payload", zap.String("type", eventType), zap.Error(err))
		return
	}
	body, err := json.Marshal(types.Event{
		Type:       eventType,
		Actor:      actor,
		OccurredAt: p.now().UTC(),
		Data:       payload,
	})
	if err != nil {
		p.log.Error("encode event", zap.String("type", eventType), zap.Error(err))
		return
	}

	id, err := p.publisher.Publish(ctx, p.channel, body, map[string]string{
		"type":                  eventType,
		mq.ContentTypeAttribute: "application/json",
	})
	if err != nil {
		p.log.Warn("publish event failed",
			zap.String("type", eventType),
			zap.String("channel", p.channel),
			zap.Error(err),
		)
		return
	}
	p.log.Debug("event published", zap.String("type", eventType), zap.String("id", id))
}
