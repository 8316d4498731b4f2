package models

import "time"

// Event is an announcement-style calendar entry. A nil ClassID makes the
// event global: visible to every role regardless of scoping.
type Event struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	Description string    `db:"description" json:"description"`
	StartTime   time.Time `db:"start_time" json:"start_time"`
	EndTime     time.Time `db:"end_time" json:"end_time"`
	ClassID     *string   `db:"class_id" json:"class_id,omitempty"`
}

// EventRow is an event joined with its optional class name.
type EventRow struct {
	Event
	ClassName *string `db:"class_name" json:"class_name,omitempty"`
}
