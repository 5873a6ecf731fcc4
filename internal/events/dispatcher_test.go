package events

import (
	"context"
	"strings"
	"testing"
)

func TestInMemoryDispatcher_Publish(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()
	var calls []string
	d.Subscribe(EventEmployeeCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.EmployeeID)
		panic("boom")
	})
	d.Subscribe(EventEmployeeCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.EmployeeID)
		return nil
	})
	d.Subscribe(EventEmployeeDeleted, func(_ context.Context, e Event) error {
		calls = append(calls, "deleted")
		return nil
	})
	d.Subscribe(EventEmployeeDeleted, nil)

	err := d.Publish(context.Background(), Event{Type: EventEmployeeCreated, EmployeeID: "emp-1"})
	if err == nil || !strings.Contains(err.Error(), "employee_created handler 0: panic: boom") {
		t.Fatalf("expected recovered handler panic, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "first:emp-1" || calls[1] != "second:emp-1" {
		t.Fatalf("unexpected calls %v", calls)
	}

	if err := d.Publish(context.Background(), Event{Type: EventEmployeeDeleted}); err != nil {
		t.Fatalf("expected nil handler to be ignored, got %v", err)
	}
	if err := d.Publish(context.Background(), Event{Type: EventEmployeeUpdated}); err != nil {
		t.Fatalf("expected no error without listeners, got %v", err)
	}
	if err := d.Publish(context.Background(), Event{}); err == nil {
		t.Fatal("expected error for untyped event")
	}
}

func TestSubscribeAll(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()
	seen := map[EventType]int{}
	SubscribeAll(d, func(_ context.Context, e Event) error {
		seen[e.Type]++
		return nil
	})

	for _, eventType := range EmployeeEventTypes {
		if err := d.Publish(context.Background(), Event{Type: eventType}); err != nil {
			t.Fatalf("Publish(%s) returned error: %v", eventType, err)
		}
	}
	if len(seen) != 3 || seen[EventEmployeeCreated] != 1 || seen[EventEmployeeDeleted] != 1 {
		t.Fatalf("unexpected deliveries %v", seen)
	}
}
