package reminder

import (
	"context"
	"time"

	executionRepo "chime/database/repository/execution"
	ruleRepo "chime/database/repository/rule"
	"chime/models"
	"chime/services/calendar"
	"chime/services/notification"
)

// ReminderService is the rule-based reminder scheduling engine: it matches
// calendar events against stored rules, expands matches into deduplicated
// scheduled executions, delivers them at their target times, and aggregates
// outcome metrics.
type ReminderService interface {
	CreateRule(rule *models.ReminderRule) (*models.ReminderRule, error)
	UpdateRule(id string, upd models.RuleUpdate) (*models.ReminderRule, error)
	DeleteRule(id string) error
	ListRules(ownerID string) ([]models.ReminderRule, error)
	ListExecutions(ownerID string) ([]models.Execution, error)
	RecordAck(key string) error
	Metrics() (*models.MetricsSnapshot, error)

	// RunCycle executes one monitoring pass: pull events per owner, match
	// and expand against active rules, then sweep due executions.
	RunCycle(ctx context.Context)

	// Deliver fires the execution identified by key, if it is still
	// pending. Safe to call from racing timers and sweeps.
	Deliver(ctx context.Context, key string) error

	// StartMonitor blocks running monitoring cycles until ctx is done.
	StartMonitor(ctx context.Context, interval time.Duration)
}

// DefaultReminderService implements ReminderService.
type DefaultReminderService struct {
	Rules      ruleRepo.RuleRepository
	Executions executionRepo.ExecutionRepository
	Source     calendar.CalendarSource
	Channel    notification.Channel
	Dispatcher Dispatcher

	// Clock overrides time.Now in tests; nil means wall clock.
	Clock func() time.Time
}

func (s *DefaultReminderService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}
