package calendar

import (
	"context"
	"fmt"
	"sync"

	"chime/models"
)

// StaticCalendarSource serves calendars and events from memory. Used in
// tests and standalone runs without a Google credential.
type StaticCalendarSource struct {
	mu        sync.RWMutex
	calendars map[string][]models.Calendar      // ownerID → calendars
	events    map[string][]models.CalendarEvent // calendarID → events
	failOwner map[string]error
}

// NewStaticCalendarSource constructs an empty static source.
func NewStaticCalendarSource() *StaticCalendarSource {
	return &StaticCalendarSource{
		calendars: make(map[string][]models.Calendar),
		events:    make(map[string][]models.CalendarEvent),
		failOwner: make(map[string]error),
	}
}

// AddCalendar registers a calendar under its owner.
func (s *StaticCalendarSource) AddCalendar(cal models.Calendar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calendars[cal.OwnerID] = append(s.calendars[cal.OwnerID], cal)
}

// AddEvent registers an event under its calendar.
func (s *StaticCalendarSource) AddEvent(ev models.CalendarEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.CalendarID] = append(s.events[ev.CalendarID], ev)
}

// FailOwner makes GetCalendars for the owner return an error, simulating an
// unavailable upstream source.
func (s *StaticCalendarSource) FailOwner(ownerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOwner[ownerID] = fmt.Errorf("calendar source unavailable for %s", ownerID)
}

func (s *StaticCalendarSource) GetCalendars(ctx context.Context, ownerID string) ([]models.Calendar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.failOwner[ownerID]; err != nil {
		return nil, err
	}
	return append([]models.Calendar(nil), s.calendars[ownerID]...), nil
}

func (s *StaticCalendarSource) GetEvents(ctx context.Context, calendarID string) ([]models.CalendarEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.CalendarEvent(nil), s.events[calendarID]...), nil
}
