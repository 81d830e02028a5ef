package calendar

import (
	"context"
	"fmt"
	"time"

	"chime/config"
	"chime/models"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// GoogleCalendarSource reads calendars and events through the Google
// Calendar API.
type GoogleCalendarSource struct {
	svc       *gcal.Service
	lookahead time.Duration
}

// NewGoogleCalendarSource builds a source backed by the configured API key.
func NewGoogleCalendarSource(ctx context.Context) (*GoogleCalendarSource, error) {
	svc, err := gcal.NewService(ctx, option.WithAPIKey(config.AppConfig.GoogleAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create calendar client: %w", err)
	}
	return &GoogleCalendarSource{svc: svc, lookahead: config.LookaheadWindow()}, nil
}

// GetCalendars lists the calendars visible to the deployment credential.
// The credential is owner-scoped, so every entry is attributed to ownerID.
func (s *GoogleCalendarSource) GetCalendars(ctx context.Context, ownerID string) ([]models.Calendar, error) {
	list, err := s.svc.CalendarList.List().Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars for %s: %w", ownerID, err)
	}

	var out []models.Calendar
	for _, entry := range list.Items {
		out = append(out, models.Calendar{
			ID:      entry.Id,
			OwnerID: ownerID,
			Name:    entry.Summary,
		})
	}
	return out, nil
}

// GetEvents pulls single events in the forward lookahead window.
func (s *GoogleCalendarSource) GetEvents(ctx context.Context, calendarID string) ([]models.CalendarEvent, error) {
	now := time.Now()
	events, err := s.svc.Events.List(calendarID).
		SingleEvents(true).
		OrderBy("startTime").
		TimeMin(now.Format(time.RFC3339)).
		TimeMax(now.Add(s.lookahead).Format(time.RFC3339)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events for calendar %s: %w", calendarID, err)
	}

	var out []models.CalendarEvent
	for _, item := range events.Items {
		ev, err := convertEvent(calendarID, item)
		if err != nil {
			// All-day and undated entries carry no usable start instant.
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func convertEvent(calendarID string, item *gcal.Event) (models.CalendarEvent, error) {
	if item.Start == nil || item.Start.DateTime == "" {
		return models.CalendarEvent{}, fmt.Errorf("event %s has no timed start", item.Id)
	}
	start, err := time.Parse(time.RFC3339, item.Start.DateTime)
	if err != nil {
		return models.CalendarEvent{}, fmt.Errorf("event %s has malformed start: %w", item.Id, err)
	}

	end := start
	if item.End != nil && item.End.DateTime != "" {
		if parsed, err := time.Parse(time.RFC3339, item.End.DateTime); err == nil {
			end = parsed
		}
	}

	extended := map[string]string{}
	if item.ExtendedProperties != nil {
		for k, v := range item.ExtendedProperties.Shared {
			extended[k] = v
		}
		for k, v := range item.ExtendedProperties.Private {
			extended[k] = v
		}
	}

	return models.CalendarEvent{
		ID:          item.Id,
		CalendarID:  calendarID,
		Title:       item.Summary,
		Description: item.Description,
		StartTime:   start,
		EndTime:     end,
		Location:    item.Location,
		Extended:    extended,
	}, nil
}
