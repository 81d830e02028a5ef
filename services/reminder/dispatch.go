package reminder

import (
	"time"

	"chime/models"
	"chime/services/tasks"

	"github.com/hibiken/asynq"
)

// Dispatcher arranges a one-shot delivery at an execution's target time.
// Implementations are not durable across restart; the monitoring sweep is
// the durability backstop.
type Dispatcher interface {
	Dispatch(exec *models.Execution) error
}

// TimerDispatcher fires deliveries through in-process timers. Cancellation
// is handled by the status check inside Deliver, not by stopping timers: a
// timer firing for a cancelled execution is a no-op.
type TimerDispatcher struct {
	Deliver func(key string)
	Clock   func() time.Time
}

func (d *TimerDispatcher) Dispatch(exec *models.Execution) error {
	now := time.Now()
	if d.Clock != nil {
		now = d.Clock()
	}
	delay := exec.TargetTime.Sub(now)
	if delay < 0 {
		delay = 0
	}
	key := exec.Key
	time.AfterFunc(delay, func() { d.Deliver(key) })
	return nil
}

// AsynqDispatcher enqueues delivery tasks on redis for the worker in
// cron/worker.go, scheduled at the execution's target time.
type AsynqDispatcher struct {
	Client *asynq.Client
}

func (d *AsynqDispatcher) Dispatch(exec *models.Execution) error {
	task, opts, err := tasks.NewDeliveryTask(exec.Key, exec.TargetTime)
	if err != nil {
		return err
	}
	_, err = d.Client.Enqueue(task, opts...)
	return err
}

// NopDispatcher never defers; everything is left to the sweep. Useful for
// tests that drive delivery explicitly.
type NopDispatcher struct{}

func (NopDispatcher) Dispatch(*models.Execution) error { return nil }
