package reminder

import (
	"context"
	"time"

	executionRepo "chime/database/repository/execution"
	"chime/models"
	"chime/utils"

	"go.uber.org/zap"
)

// expandAndSchedule produces one execution per (leadTime, channel) pair of
// a matched rule and hands each to the dispatcher. Returns how many new
// executions were created.
//
// Two rules keep repeated monitoring passes idempotent: a key that already
// exists is skipped regardless of status (cancelled and failed items are
// not resurrected), and a lead time whose target is already in the past
// produces nothing, so every pass does not flood instant past-due
// reminders. Already-created items that have since come due are fired by
// the sweep, not here.
func (s *DefaultReminderService) expandAndSchedule(ctx context.Context, rule *models.ReminderRule, event *models.CalendarEvent) int {
	logger := utils.GetLogger()
	now := s.now()
	created := 0

	snapshot := models.EventSnapshot{
		Title:     event.Title,
		StartTime: event.StartTime,
		Location:  event.Location,
		Priority:  ResolvePriority(event.Title, event.Description),
	}

	for _, lead := range rule.LeadTimes {
		if lead < 0 {
			continue
		}
		target := event.StartTime.Add(-time.Duration(lead) * time.Minute)
		if !target.After(now) {
			continue
		}
		for _, channel := range rule.Channels {
			key := models.ExecutionKey(rule.ID, event.ID, lead, channel)
			exists, err := s.Executions.Exists(key)
			if err != nil {
				logger.Warn("dedup lookup failed", zap.String("key", key), zap.Error(err))
				continue
			}
			if exists {
				continue
			}

			exec := &models.Execution{
				Key:             key,
				RuleID:          rule.ID,
				OwnerID:         rule.OwnerID,
				EventID:         event.ID,
				Channel:         channel,
				LeadTimeMinutes: lead,
				Status:          models.StatusScheduled,
				TargetTime:      target,
				Snapshot:        snapshot,
				CreatedAt:       now,
			}
			if err := s.Executions.Insert(exec); err != nil {
				if err == executionRepo.ErrDuplicateKey {
					continue
				}
				logger.Warn("failed to persist execution", zap.String("key", key), zap.Error(err))
				continue
			}
			s.scheduleExecution(ctx, exec)
			created++
		}
	}
	return created
}

// scheduleExecution arranges delivery: inline when the target has already
// arrived, otherwise through the dispatcher's deferred one-shot. Deferred
// firing is not durable; the sweep picks up anything a lost timer leaves
// behind.
func (s *DefaultReminderService) scheduleExecution(ctx context.Context, exec *models.Execution) {
	if !exec.TargetTime.After(s.now()) {
		if err := s.Deliver(ctx, exec.Key); err != nil {
			utils.GetLogger().Warn("inline delivery failed",
				zap.String("key", exec.Key), zap.Error(err))
		}
		return
	}
	if err := s.Dispatcher.Dispatch(exec); err != nil {
		// The item stays scheduled; the next sweep delivers it.
		utils.GetLogger().Warn("dispatch failed, sweep will pick up",
			zap.String("key", exec.Key), zap.Error(err))
	}
}
