// Package queue defines the mess activity events exchanged over RabbitMQ,
// their publisher, and the background consumer that records them.
package queue

import "time"

// QueueName is the durable queue every activity event is routed to.
const QueueName = "mess.activity"

// Event types.
const (
	EventStudentAdded     = "student.added"
	EventAttendanceMarked = "attendance.marked"
	EventRateChanged      = "mess.rate_changed"
	EventMessUpdated      = "mess.updated"
)

// ActivityEvent is published after a successful mutation. It carries enough
// context for downstream consumers to log or notify without reading the
// store. Fields irrelevant to Type are left empty.
type ActivityEvent struct {
	Type       string    `json:"type"`
	MessID     string    `json:"mess_id"`
	StudentID  string    `json:"student_id,omitempty"`
	Name       string    `json:"name,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Date       string    `json:"date,omitempty"`
	Present    *bool     `json:"present,omitempty"`
	OldRate    string    `json:"old_rate,omitempty"`
	NewRate    string    `json:"new_rate,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
