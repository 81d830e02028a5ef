package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"chime/config"
	"chime/services/reminder"
	"chime/services/tasks"
	"chime/utils"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitDeliveryWorker runs the async delivery worker in background. It
// consumes the ProcessAt-scheduled tasks the AsynqDispatcher enqueues and
// fires them through the engine's Deliver path.
func InitDeliveryWorker(svc reminder.ReminderService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeDeliverReminder, handleDeliveryTask(svc))

	// Start Redis health monitor
	go monitorRedisConnection()

	// Start async worker with retry logic
	go func() {
		log.Println("[DeliveryWorker] starting async worker...")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				log.Printf("[DeliveryWorker] attempt %d/%d failed to start worker: %v", attempts, maxAttempts, err)

				if attempts == maxAttempts {
					log.Fatal("[DeliveryWorker] max retry attempts reached. Exiting.")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second) // Exponential backoff
			} else {
				break
			}
		}
	}()
}

func handleDeliveryTask(svc reminder.ReminderService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var p tasks.DeliveryPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			utils.GetLogger().Error("delivery task has invalid payload", zap.Error(err))
			return err
		}

		// Deliver is a no-op for executions that were cancelled or already
		// claimed by the sweep, and swallows channel failures after marking
		// the record failed. Returning nil keeps asynq from re-queueing;
		// retry policy is a product decision this engine does not make.
		if err := svc.Deliver(ctx, p.Key); err != nil {
			utils.GetLogger().Warn("delivery task failed",
				zap.String("key", p.Key), zap.Error(err))
		}
		return nil
	}
}

// monitorRedisConnection pings Redis periodically to detect failures at runtime.
func monitorRedisConnection() {
	client := redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	ctx := context.Background()

	for {
		if err := client.Ping(ctx).Err(); err != nil {
			log.Printf("[DeliveryWorker] redis connection lost: %v", err)
		}
		time.Sleep(10 * time.Second)
	}
}
