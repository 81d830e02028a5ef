package calendar

import (
	"context"

	"chime/models"
)

// CalendarSource provides calendars and events for a user. The engine only
// reads from it; event ordering is not part of the contract.
type CalendarSource interface {
	GetCalendars(ctx context.Context, ownerID string) ([]models.Calendar, error)
	GetEvents(ctx context.Context, calendarID string) ([]models.CalendarEvent, error)
}
