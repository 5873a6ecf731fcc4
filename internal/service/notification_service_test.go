package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/employee-directory/internal/events"
)

type fakePublisher struct {
	channel  string
	messages [][]byte
	err      error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.channel = channel
	if body, ok := message.([]byte); ok {
		p.messages = append(p.messages, body)
	}
	cmd := redis.NewIntCmd(ctx)
	if p.err != nil {
		cmd.SetErr(p.err)
		return cmd
	}
	cmd.SetVal(1)
	return cmd
}

func TestNotificationService_ForwardsEvents(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{}
	NewNotificationService(dispatcher, publisher, "employee-events", zap.New(core)).RegisterHandlers()

	event := events.Event{
		ID:         "evt-1",
		Type:       events.EventEmployeeCreated,
		EmployeeID: "emp-1",
		Timestamp:  time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Payload:    events.EmployeeChangedPayload{Name: "A", Email: "a@x.com", Department: "Engineering"},
	}
	if err := dispatcher.Publish(context.Background(), event); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}

	if publisher.channel != "employee-events" || len(publisher.messages) != 1 {
		t.Fatalf("expected one message on employee-events, got %d on %q", len(publisher.messages), publisher.channel)
	}
	var decoded map[string]interface{}
	if err := json.Unmarshal(publisher.messages[0], &decoded); err != nil {
		t.Fatalf("message is not JSON: %v", err)
	}
	if decoded["type"] != "employee_created" || decoded["employee_id"] != "emp-1" {
		t.Fatalf("unexpected message %v", decoded)
	}
	if logs.FilterMessage("employee event").Len() != 1 {
		t.Fatal("expected the event to be logged")
	}
}

func TestNotificationService_PublishFailure(t *testing.T) {
	t.Parallel()

	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{err: errors.New("connection refused")}
	NewNotificationService(dispatcher, publisher, "employee-events", zap.NewNop()).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.Event{ID: "evt-2", Type: events.EventEmployeeDeleted, EmployeeID: "emp-1"})
	if err == nil {
		t.Fatal("expected publish failure to surface")
	}
}

func TestNotificationService_LogOnly(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zap.InfoLevel)
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, nil, "employee-events", zap.New(core)).RegisterHandlers()

	if err := dispatcher.Publish(context.Background(), events.Event{ID: "evt-3", Type: events.EventEmployeeUpdated, EmployeeID: "emp-1"}); err != nil {
		t.Fatalf("Publish returned error: %v", err)
	}
	if logs.Len() != 1 {
		t.Fatalf("expected one log entry, got %d", logs.Len())
	}
}
