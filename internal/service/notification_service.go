package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-directory/internal/events"
)

// EventPublisher is the subset of *redis.Client used to fan out events.
type EventPublisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// NotificationService logs employee change events and forwards them to Redis pub/sub.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  EventPublisher
	channel    string
	logger     *zap.Logger
}

// NewNotificationService creates the service. publisher may be nil, in which case events
// are only logged.
func NewNotificationService(dispatcher events.Dispatcher, publisher EventPublisher, channel string, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		channel:    channel,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	events.SubscribeAll(n.dispatcher, n.handleEmployeeEvent)
}

func (n *NotificationService) handleEmployeeEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("employee event",
		zap.String("event_type", string(event.Type)),
		zap.String("employee_id", event.EmployeeID),
		zap.Any("payload", event.Payload))
	return n.forward(ctx, event)
}

func (n *NotificationService) forward(ctx context.Context, event events.Event) error {
	if n.publisher == nil {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	if err := n.publisher.Publish(ctx, n.channel, body).Err(); err != nil {
		return fmt.Errorf("publish event %s to %s: %w", event.ID, n.channel, err)
	}
	n.logger.Debug("event published",
		zap.String("channel", n.channel),
		zap.String("event_id", event.ID))
	return nil
}
