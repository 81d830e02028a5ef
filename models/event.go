package models

import "time"

// Calendar is one calendar owned by a user, as reported by the external
// calendar source.
type Calendar struct {
	ID      string `json:"id" bson:"id"`
	OwnerID string `json:"ownerId" bson:"ownerId"`
	Name    string `json:"name" bson:"name"`
}

// CalendarEvent is an externally-sourced event. The engine never writes
// events back; they are read-only input to rule matching.
type CalendarEvent struct {
	ID          string            `json:"id" bson:"id"`
	CalendarID  string            `json:"calendarId" bson:"calendarId"`
	Title       string            `json:"title" bson:"title"`
	Description string            `json:"description,omitempty" bson:"description,omitempty"`
	StartTime   time.Time         `json:"startTime" bson:"startTime"`
	EndTime     time.Time         `json:"endTime" bson:"endTime"`
	Location    string            `json:"location,omitempty" bson:"location,omitempty"`
	Extended    map[string]string `json:"extended,omitempty" bson:"extended,omitempty"`
}

// EventTypeKey is the extended-property key carrying an event's type tag.
const EventTypeKey = "eventType"

// Type returns the event's type tag, or "" when untagged.
func (e *CalendarEvent) Type() string {
	if e.Extended == nil {
		return ""
	}
	return e.Extended[EventTypeKey]
}
