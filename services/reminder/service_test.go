package reminder

import (
	"testing"
	"time"

	executionRepo "chime/database/repository/execution"
	ruleRepo "chime/database/repository/rule"
	"chime/models"
	"chime/services/calendar"
	"chime/services/notification"
)

// testFixture wires the engine against in-memory stores, a static calendar
// source, and a capture channel, with a frozen clock.
type testFixture struct {
	svc     *DefaultReminderService
	rules   *ruleRepo.MemoryRuleRepo
	execs   *executionRepo.MemoryExecutionRepo
	source  *calendar.StaticCalendarSource
	channel *notification.CaptureChannel
	now     time.Time
}

func newFixture(t *testing.T) *testFixture {
	t.Helper()
	now := time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC)
	f := &testFixture{
		rules:   ruleRepo.NewMemoryRuleRepo(),
		execs:   executionRepo.NewMemoryExecutionRepo(),
		source:  calendar.NewStaticCalendarSource(),
		channel: notification.NewCaptureChannel(),
		now:     now,
	}
	f.svc = &DefaultReminderService{
		Rules:      f.rules,
		Executions: f.execs,
		Source:     f.source,
		Channel:    f.channel,
		Dispatcher: NopDispatcher{},
		Clock:      func() time.Time { return f.now },
	}
	return f
}

func (f *testFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func (f *testFixture) addRule(rule models.ReminderRule) models.ReminderRule {
	if rule.ID == "" {
		rule.ID = "rule-" + rule.OwnerID
	}
	rule.Active = true
	_ = f.rules.Create(&rule)
	return rule
}

func testEvent(id string, start time.Time) models.CalendarEvent {
	return models.CalendarEvent{
		ID:         id,
		CalendarID: "cal-1",
		Title:      "Community Potluck",
		StartTime:  start,
		EndTime:    start.Add(time.Hour),
	}
}
