package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Reminder engine tuning.
	MonitorIntervalMin int `mapstructure:"MONITOR_INTERVAL_MIN"`
	LookaheadDays      int `mapstructure:"LOOKAHEAD_DAYS"`

	// Google Calendar API key (used by the calendar source client).
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`

	// Firebase service-account credentials file for push delivery.
	FirebaseCredFile string `mapstructure:"FIREBASE_CRED_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("MONITOR_INTERVAL_MIN", 5)
	viper.SetDefault("LOOKAHEAD_DAYS", 7)
	viper.SetDefault("GOOGLE_API_KEY", "")
	viper.SetDefault("FIREBASE_CRED_FILE", "")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// MonitorInterval returns the monitoring-loop cadence.
func MonitorInterval() time.Duration {
	if AppConfig.MonitorIntervalMin <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(AppConfig.MonitorIntervalMin) * time.Minute
}

// LookaheadWindow returns the forward window events are pulled for.
func LookaheadWindow() time.Duration {
	if AppConfig.LookaheadDays <= 0 {
		return 7 * 24 * time.Hour
	}
	return time.Duration(AppConfig.LookaheadDays) * 24 * time.Hour
}
