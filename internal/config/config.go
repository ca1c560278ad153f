package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Queue   QueueConfig
	Source  SourceConfig
	Logging LoggingConfig
}

type QueueConfig struct {
	// Capacity is rounded up to a power of two by the queue.
	Capacity int
	// IdleSleep is how long the consumer sleeps between polls of an empty
	// queue; zero means pure spinning with goroutine yields.
	IdleSleep time.Duration
}

type SourceConfig struct {
	EnqueueMaxRetries int
	EnqueueBaseDelay  time.Duration
}

type LoggingConfig struct {
	Level string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using default values")
	}

	return &Config{
		Queue: QueueConfig{
			Capacity:  getIntEnv("QUEUE_CAPACITY", 65536),
			IdleSleep: getDurationEnv("QUEUE_IDLE_SLEEP", 100*time.Microsecond),
		},
		Source: SourceConfig{
			EnqueueMaxRetries: getIntEnv("ENQUEUE_MAX_RETRIES", 10),
			EnqueueBaseDelay:  getDurationEnv("ENQUEUE_BASE_DELAY", time.Millisecond),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntEnv(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid duration for %s: %s, using default: %s", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}
