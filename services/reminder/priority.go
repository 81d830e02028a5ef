package reminder

import (
	"fmt"
	"strings"
	"time"

	"chime/models"
)

// ResolvePriority derives an event's priority from a fixed keyword
// precedence: emergency/urgent anywhere beats important, which beats a
// meeting/appointment title, which beats the normal default. The order
// matters: "Urgent meeting" resolves to urgent, not high.
func ResolvePriority(title, description string) models.Priority {
	text := strings.ToLower(title + " " + description)
	if strings.Contains(text, "emergency") || strings.Contains(text, "urgent") {
		return models.PriorityUrgent
	}
	if strings.Contains(text, "important") {
		return models.PriorityHigh
	}
	loweredTitle := strings.ToLower(title)
	if strings.Contains(loweredTitle, "meeting") || strings.Contains(loweredTitle, "appointment") {
		return models.PriorityHigh
	}
	return models.PriorityNormal
}

// BuildMessage renders the reminder text from the snapshot captured at
// scheduling time: title, a relative-time phrase, the absolute event time,
// and the location when present.
func BuildMessage(snap models.EventSnapshot, now time.Time) string {
	msg := fmt.Sprintf("Reminder: %s %s at %s",
		snap.Title,
		relativePhrase(snap.StartTime, now),
		snap.StartTime.Format("3:04 PM on Mon, Jan 2"),
	)
	if snap.Location != "" {
		msg += fmt.Sprintf(" (%s)", snap.Location)
	}
	return msg
}

func relativePhrase(start, now time.Time) string {
	minutes := int(start.Sub(now).Minutes())
	switch {
	case minutes <= 0:
		return "starting now"
	case minutes < 60:
		return fmt.Sprintf("in %d minute%s", minutes, plural(minutes))
	default:
		hours := minutes / 60
		rem := minutes % 60
		phrase := fmt.Sprintf("in %d hour%s", hours, plural(hours))
		if rem > 0 {
			phrase += fmt.Sprintf(" and %d minute%s", rem, plural(rem))
		}
		return phrase
	}
}

// plural returns "s" if n is not 1, otherwise returns an empty string.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
