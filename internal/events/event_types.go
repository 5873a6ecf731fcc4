package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventEmployeeCreated EventType = "employee_created"
	EventEmployeeUpdated EventType = "employee_updated"
	EventEmployeeDeleted EventType = "employee_deleted"
)

// EmployeeEventTypes lists every event emitted for employee records.
var EmployeeEventTypes = []EventType{EventEmployeeCreated, EventEmployeeUpdated, EventEmployeeDeleted}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	EmployeeID string      `json:"employee_id"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload,omitempty"`
}

// EmployeeChangedPayload describes the record after a create or update.
type EmployeeChangedPayload struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Department    string   `json:"department"`
	ChangedFields []string `json:"changed_fields,omitempty"`
}
