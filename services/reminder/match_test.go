package reminder

import (
	"testing"
	"time"

	"chime/models"

	"github.com/stretchr/testify/assert"
)

func activeRule(conditions *models.RuleConditions) models.ReminderRule {
	return models.ReminderRule{
		ID:         "r1",
		OwnerID:    "owner-1",
		Channels:   []models.ChannelType{models.ChannelPush},
		LeadTimes:  []int{15},
		Conditions: conditions,
		Active:     true,
	}
}

func TestResolvePriorityPrecedence(t *testing.T) {
	// urgent/emergency keywords outrank the meeting heuristic.
	assert.Equal(t, models.PriorityUrgent, ResolvePriority("Urgent meeting", ""))
	assert.Equal(t, models.PriorityUrgent, ResolvePriority("Checkup", "this is an EMERGENCY"))
	assert.Equal(t, models.PriorityHigh, ResolvePriority("Important errand", ""))
	assert.Equal(t, models.PriorityHigh, ResolvePriority("Team meeting", ""))
	assert.Equal(t, models.PriorityHigh, ResolvePriority("Dentist appointment", ""))
	// "meeting" only counts in the title.
	assert.Equal(t, models.PriorityNormal, ResolvePriority("Lunch", "after the meeting"))
	assert.Equal(t, models.PriorityNormal, ResolvePriority("Lunch", ""))
}

func TestRuleMatchesInactiveRule(t *testing.T) {
	rule := activeRule(nil)
	rule.Active = false
	event := testEvent("e1", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	assert.False(t, RuleMatches(&rule, &event))
}

func TestRuleMatchesTypeFilter(t *testing.T) {
	rule := activeRule(nil)
	rule.EventTypes = []string{"appointment", "class"}

	event := testEvent("e1", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	assert.False(t, RuleMatches(&rule, &event), "untagged event must not match a typed rule")

	event.Extended = map[string]string{models.EventTypeKey: "class"}
	assert.True(t, RuleMatches(&rule, &event))

	// Empty type set matches any type.
	rule.EventTypes = nil
	event.Extended = nil
	assert.True(t, RuleMatches(&rule, &event))
}

func TestRuleMatchesPriorityFloor(t *testing.T) {
	rule := activeRule(&models.RuleConditions{MinPriority: models.PriorityHigh})

	event := testEvent("e1", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	event.Title = "Coffee with Sam"
	assert.False(t, RuleMatches(&rule, &event))

	event.Title = "Board meeting"
	assert.True(t, RuleMatches(&rule, &event))

	event.Title = "Urgent roof repair"
	assert.True(t, RuleMatches(&rule, &event))
}

func TestRuleMatchesKeywords(t *testing.T) {
	rule := activeRule(&models.RuleConditions{Keywords: []string{"vaccine", "clinic"}})
	event := testEvent("e1", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))

	event.Title = "Flu VACCINE drive"
	assert.True(t, RuleMatches(&rule, &event), "include keywords match case-insensitively")

	event.Title = "Bake sale"
	event.Description = "at the clinic parking lot"
	assert.True(t, RuleMatches(&rule, &event), "description counts for keywords")

	event.Description = ""
	assert.False(t, RuleMatches(&rule, &event))
}

func TestRuleMatchesExcludeKeywords(t *testing.T) {
	rule := activeRule(&models.RuleConditions{ExcludeKeywords: []string{"cancelled"}})
	event := testEvent("e1", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))

	event.Title = "Yoga class"
	assert.True(t, RuleMatches(&rule, &event))

	event.Description = "CANCELLED due to weather"
	assert.False(t, RuleMatches(&rule, &event))
}

func TestRuleMatchesTimeWindowInclusive(t *testing.T) {
	rule := activeRule(&models.RuleConditions{
		TimeWindow: &models.TimeWindow{Start: "08:00", End: "20:00"},
	})

	at := func(h, m int) models.CalendarEvent {
		return testEvent("e1", time.Date(2026, 3, 10, h, m, 0, 0, time.UTC))
	}

	e := at(7, 59)
	assert.False(t, RuleMatches(&rule, &e), "07:59 is before the window")
	e = at(8, 0)
	assert.True(t, RuleMatches(&rule, &e), "start boundary is inclusive")
	e = at(20, 0)
	assert.True(t, RuleMatches(&rule, &e), "end boundary is inclusive")
	e = at(20, 1)
	assert.False(t, RuleMatches(&rule, &e))
}

func TestRuleMatchesMidnightWindowNeverWraps(t *testing.T) {
	// Lexicographic HH:MM comparison: a window crossing midnight matches
	// nothing after its start. Documented limitation.
	rule := activeRule(&models.RuleConditions{
		TimeWindow: &models.TimeWindow{Start: "22:00", End: "02:00"},
	})
	e := testEvent("e1", time.Date(2026, 3, 10, 23, 0, 0, 0, time.UTC))
	assert.False(t, RuleMatches(&rule, &e))
	e = testEvent("e1", time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC))
	assert.False(t, RuleMatches(&rule, &e))
}

func TestRuleMatchesWeekdays(t *testing.T) {
	// 2026-03-10 is a Tuesday (weekday index 2).
	rule := activeRule(&models.RuleConditions{Weekdays: []int{0, 6}})
	e := testEvent("e1", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))
	assert.False(t, RuleMatches(&rule, &e))

	rule.Conditions.Weekdays = []int{2}
	assert.True(t, RuleMatches(&rule, &e))
}

func TestRuleMatchesLocationSubstring(t *testing.T) {
	rule := activeRule(&models.RuleConditions{Location: "community center"})
	e := testEvent("e1", time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC))

	e.Location = "Main St Community Center, Room 4"
	assert.True(t, RuleMatches(&rule, &e))

	e.Location = "City Hall"
	assert.False(t, RuleMatches(&rule, &e))

	// The constraint only applies when the event carries a location.
	e.Location = ""
	assert.True(t, RuleMatches(&rule, &e))
}
