package reminder

import (
	"strings"

	"chime/models"
)

// RuleMatches decides whether an event is applicable to a rule. It is a
// pure function and never errors: a missing optional field either imposes
// no constraint or fails its own check, per condition. Checks run in a
// fixed order and short-circuit on the first failure.
func RuleMatches(rule *models.ReminderRule, event *models.CalendarEvent) bool {
	if !rule.Active {
		return false
	}

	// 1. Type filter: empty set matches any type.
	if len(rule.EventTypes) > 0 && !containsString(rule.EventTypes, event.Type()) {
		return false
	}

	c := rule.Conditions
	if c == nil {
		return true
	}

	// 2. Priority floor.
	if c.MinPriority != "" {
		prio := ResolvePriority(event.Title, event.Description)
		if prio.Rank() < c.MinPriority.Rank() {
			return false
		}
	}

	text := strings.ToLower(event.Title + " " + event.Description)

	// 3. Include keywords: at least one must appear.
	if len(c.Keywords) > 0 && !anyKeyword(text, c.Keywords) {
		return false
	}

	// 4. Exclude keywords: any appearance disqualifies.
	if len(c.ExcludeKeywords) > 0 && anyKeyword(text, c.ExcludeKeywords) {
		return false
	}

	// 5. Time-of-day window, inclusive on both ends. The comparison is
	// lexicographic on zero-padded HH:MM, so windows crossing midnight
	// (e.g. 22:00-02:00) never match. Known limitation, kept as-is.
	if c.TimeWindow != nil {
		hhmm := event.StartTime.Format("15:04")
		if hhmm < c.TimeWindow.Start || hhmm > c.TimeWindow.End {
			return false
		}
	}

	// 6. Weekday set, 0=Sunday through 6=Saturday.
	if len(c.Weekdays) > 0 && !containsInt(c.Weekdays, int(event.StartTime.Weekday())) {
		return false
	}

	// 7. Location substring. The constraint only applies when the event
	// carries a location at all.
	if c.Location != "" && event.Location != "" {
		if !strings.Contains(strings.ToLower(event.Location), strings.ToLower(c.Location)) {
			return false
		}
	}

	return true
}

func anyKeyword(loweredText string, keywords []string) bool {
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(loweredText, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsInt(set []int, v int) bool {
	for _, n := range set {
		if n == v {
			return true
		}
	}
	return false
}
