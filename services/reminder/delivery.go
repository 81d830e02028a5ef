package reminder

import (
	"context"
	"errors"

	executionRepo "chime/database/repository/execution"
	"chime/utils"

	"go.uber.org/zap"
)

// Deliver fires one execution. The scheduled→sent transition is an atomic
// check-and-set on the store, so when a deferred timer and the due sweep
// race for the same key exactly one caller proceeds to the channel send;
// the loser sees ErrNotPending and returns quietly. The same check makes a
// timer firing after cancellation a no-op.
//
// A channel failure marks the execution failed and is not propagated:
// delivery errors are observable through the record and metrics, never
// fatal to the calling loop. There is no automatic retry.
func (s *DefaultReminderService) Deliver(ctx context.Context, key string) error {
	logger := utils.GetLogger()

	exec, err := s.Executions.MarkSent(key, s.now())
	if err != nil {
		if errors.Is(err, executionRepo.ErrNotPending) {
			return nil
		}
		return err
	}

	text := BuildMessage(exec.Snapshot, s.now())
	if err := s.Channel.Send(ctx, exec.Channel, exec.OwnerID, text); err != nil {
		logger.Warn("reminder delivery failed",
			zap.String("key", key),
			zap.String("channel", string(exec.Channel)),
			zap.Error(err))
		if err := s.Executions.MarkFailed(key, err.Error()); err != nil {
			logger.Error("failed to record delivery failure",
				zap.String("key", key), zap.Error(err))
		}
		return nil
	}

	if err := s.Executions.MarkDelivered(key); err != nil {
		return err
	}
	logger.Info("reminder delivered",
		zap.String("key", key),
		zap.String("channel", string(exec.Channel)))
	return nil
}

// SweepDue delivers every execution whose target time has arrived but whose
// timer never fired, covering process restarts and lost timers.
func (s *DefaultReminderService) SweepDue(ctx context.Context) {
	due, err := s.Executions.ListDue(s.now())
	if err != nil {
		utils.GetLogger().Warn("due sweep failed", zap.Error(err))
		return
	}
	for _, exec := range due {
		if err := s.Deliver(ctx, exec.Key); err != nil {
			utils.GetLogger().Warn("sweep delivery failed",
				zap.String("key", exec.Key), zap.Error(err))
		}
	}
}
