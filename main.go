// File: chime/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chime/config"
	"chime/cron"
	"chime/database"
	executionRepo "chime/database/repository/execution"
	ruleRepo "chime/database/repository/rule"
	"chime/handlers"
	"chime/middleware"
	"chime/routes"
	"chime/services/calendar"
	"chime/services/notification"
	"chime/services/reminder"
	"chime/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	router.Use(cors.Default())

	// repositories.
	rules := ruleRepo.NewMongoRuleRepo()
	executions := executionRepo.NewMongoExecutionRepo()

	// External collaborators. Both fall back to inert local implementations
	// when their credentials are absent, so the engine still runs.
	var source calendar.CalendarSource
	if config.AppConfig.GoogleAPIKey != "" {
		googleSource, err := calendar.NewGoogleCalendarSource(context.Background())
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize calendar source: %v", err)
		}
		source = googleSource
	} else {
		logger.Warn("no Google API key configured; using empty static calendar source")
		source = calendar.NewStaticCalendarSource()
	}

	var channel notification.Channel
	if config.AppConfig.FirebaseCredFile != "" {
		utils.FirebaseInit()
		fcm, err := notification.NewFCMChannel(resolveDeviceToken)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize push channel: %v", err)
		}
		channel = fcm
	} else {
		logger.Warn("no Firebase credentials configured; reminders will be captured, not pushed")
		channel = notification.NewCaptureChannel()
	}

	// The reminder engine.
	asynqClient := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})
	defer asynqClient.Close()

	reminderService := &reminder.DefaultReminderService{
		Rules:      rules,
		Executions: executions,
		Source:     source,
		Channel:    channel,
		Dispatcher: &reminder.AsynqDispatcher{Client: asynqClient},
	}

	cron.InitDeliveryWorker(reminderService)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	go reminderService.StartMonitor(monitorCtx, config.MonitorInterval())

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetCacheClient(), utils.GetQueueClient()},
		database.MongoClient,
	)

	// handlers and routes.
	reminderHandler := &handlers.ReminderHandler{Service: reminderService}
	metricsHandler := &handlers.MetricsHandler{
		Service: reminderService,
		Cache:   utils.GetCacheClient(),
	}

	routes.RegisterRuleRoutes(router, reminderHandler)
	routes.RegisterExecutionRoutes(router, reminderHandler)
	routes.RegisterMetricsRoutes(router, metricsHandler)
	routes.RegisterHealthRoute(router)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stopMonitor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// resolveDeviceToken looks up the FCM token the mobile app registered for
// the owner. Device registration writes tokens to the cache DB.
func resolveDeviceToken(ctx context.Context, ownerID string) (string, error) {
	return utils.GetCacheClient().Get(ctx, "fcm:"+ownerID).Result()
}
