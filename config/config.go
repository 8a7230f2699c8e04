package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string   `mapstructure:"APP_PORT"`
	Env               string   `mapstructure:"ENV"`
	JWTSecret         string   `mapstructure:"JWT_SECRET"`
	LogLevel          string   `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int      `mapstructure:"MAX_REQUESTS_PER_MIN"`
	CORSOrigins       []string `mapstructure:"CORS_ORIGINS"`

	// Store selects the persistence backend: "mongo" or "memory".
	Store        string `mapstructure:"STORE"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	DatabaseName string `mapstructure:"DATABASE_NAME"`

	// Redis configuration. An empty address disables caching, locking and reminders.
	RedisAddr            string `mapstructure:"REDIS_ADDR"`
	RedisPassword        string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB         int    `mapstructure:"REDIS_CACHE_DB"`
	RedisLockDB          int    `mapstructure:"REDIS_LOCK_DB"`
	RedisReminderQueueDB int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	SlotCacheTTL     time.Duration `mapstructure:"SLOT_CACHE_TTL"`
	BookingLockTTL   time.Duration `mapstructure:"BOOKING_LOCK_TTL"`
	BookingLockWait  time.Duration `mapstructure:"BOOKING_LOCK_WAIT"`
	ReminderLead     time.Duration `mapstructure:"REMINDER_LEAD"`
	MaxSlotRangeDays int           `mapstructure:"MAX_SLOT_RANGE_DAYS"`
	HistoryMaxDepth  int           `mapstructure:"HISTORY_MAX_DEPTH"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("CORS_ORIGINS", []string{"*"})
	viper.SetDefault("STORE", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "slotwise")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_LOCK_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("SLOT_CACHE_TTL", "30s")
	viper.SetDefault("BOOKING_LOCK_TTL", "10s")
	viper.SetDefault("BOOKING_LOCK_WAIT", "2s")
	viper.SetDefault("REMINDER_LEAD", "1h")
	viper.SetDefault("MAX_SLOT_RANGE_DAYS", 14)
	viper.SetDefault("HISTORY_MAX_DEPTH", 64)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if AppConfig.JWTSecret == "" {
		log.Fatal("JWT_SECRET must be set")
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UsesMemoryStore reports whether persistence is process-local.
func UsesMemoryStore() bool {
	return AppConfig.Store == "memory"
}
