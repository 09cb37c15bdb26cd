package domain

import "time"

// EventType categorizes a calendar event.
type EventType string

const (
	EventTypeMeeting  EventType = "meeting"
	EventTypeDeadline EventType = "deadline"
	EventTypePersonal EventType = "personal"
	EventTypeFocus    EventType = "focus"
	EventTypeEvent    EventType = "event"
)

// CalendarEvent is an owner-scoped busy interval on the calendar.
// StartDate <= EndDate is enforced at the validation boundary, not here.
type CalendarEvent struct {
	Record
	Title             string    `json:"title"`
	Description       string    `json:"description,omitempty"`
	StartDate         time.Time `json:"startDate"`
	EndDate           time.Time `json:"endDate"`
	AllDay            bool      `json:"allDay"`
	Type              EventType `json:"type"`
	Color             string    `json:"color,omitempty"`
	Location          string    `json:"location,omitempty"`
	LinkedDocumentIDs []string  `json:"linkedDocumentIds,omitempty"`
	LinkedTaskIDs     []string  `json:"linkedTaskIds,omitempty"`
	OwnerID           string    `json:"ownerId"`
}
