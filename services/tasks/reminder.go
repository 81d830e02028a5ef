package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TypeDeliverReminder = "reminder:deliver"

// DeliveryPayload identifies the execution a queued delivery task fires.
type DeliveryPayload struct {
	Key string `json:"key"`
}

// NewDeliveryTask builds an asynq task that fires the execution at its
// target time. MaxRetry is zero: failed deliveries are terminal and stay
// visible on the execution record, never re-queued.
func NewDeliveryTask(key string, fireAt time.Time) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(DeliveryPayload{Key: key})
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeDeliverReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(fireAt), asynq.MaxRetry(0)}

	return task, opts, nil
}
