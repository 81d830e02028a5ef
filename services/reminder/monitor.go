package reminder

import (
	"context"
	"time"

	"chime/models"
	"chime/utils"

	"go.uber.org/zap"
)

// RunCycle executes one monitoring pass: enumerate distinct owners across
// active rules, pull each owner's calendars and events, run match+expand
// per event per rule, then sweep executions whose due time has arrived.
// A calendar-source failure for one owner is logged and skipped; it never
// aborts the cycle for the remaining owners.
func (s *DefaultReminderService) RunCycle(ctx context.Context) {
	logger := utils.GetLogger()

	rules, err := s.Rules.ListActive()
	if err != nil {
		logger.Warn("monitoring cycle: failed to list active rules", zap.Error(err))
		s.SweepDue(ctx)
		return
	}

	byOwner := make(map[string][]models.ReminderRule)
	for _, r := range rules {
		byOwner[r.OwnerID] = append(byOwner[r.OwnerID], r)
	}

	for ownerID, ownerRules := range byOwner {
		s.processOwner(ctx, ownerID, ownerRules)
	}

	s.SweepDue(ctx)
}

func (s *DefaultReminderService) processOwner(ctx context.Context, ownerID string, rules []models.ReminderRule) {
	logger := utils.GetLogger()

	calendars, err := s.Source.GetCalendars(ctx, ownerID)
	if err != nil {
		logger.Warn("calendar source unavailable for owner",
			zap.String("ownerId", ownerID), zap.Error(err))
		return
	}

	matched := make(map[string]bool)
	for _, cal := range calendars {
		events, err := s.Source.GetEvents(ctx, cal.ID)
		if err != nil {
			logger.Warn("failed to fetch events",
				zap.String("calendarId", cal.ID), zap.Error(err))
			continue
		}
		for _, event := range events {
			for i := range rules {
				rule := &rules[i]
				if !RuleMatches(rule, &event) {
					continue
				}
				s.expandAndSchedule(ctx, rule, &event)
				matched[rule.ID] = true
			}
		}
	}

	// Advisory stamp only; correctness never depends on it.
	now := s.now()
	for ruleID := range matched {
		if err := s.Rules.TouchLastTriggered(ruleID, now); err != nil {
			logger.Debug("failed to stamp lastTriggeredAt",
				zap.String("ruleId", ruleID), zap.Error(err))
		}
	}
}

// StartMonitor runs one immediate cycle and then repeats on the interval
// until ctx is cancelled. Call in its own goroutine.
func (s *DefaultReminderService) StartMonitor(ctx context.Context, interval time.Duration) {
	logger := utils.GetLogger()
	logger.Info("reminder monitor starting", zap.Duration("interval", interval))

	s.RunCycle(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reminder monitor shutdown signal received")
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}
