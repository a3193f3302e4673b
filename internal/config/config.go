// Package config reads process configuration from the environment.
package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/cx-tal-miterani/airline-reservation/shared/models"
)

const DefaultPort = "8080"

// Config holds the settings shared by the server and the console.
type Config struct {
	Port              string
	DatabaseURL       string
	TemporalHost      string
	TaskQueue         string
	SeedSampleNetwork bool
	RateLimitRPS      float64
	RateLimitBurst    int
}

// Load reads a .env file when present, then the environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() Config {
	return Config{
		Port:              getEnv("API_PORT", DefaultPort),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		TemporalHost:      getEnv("TEMPORAL_HOST", ""),
		TaskQueue:         getEnv("TASK_QUEUE", models.DefaultTaskQueue),
		SeedSampleNetwork: getEnvBool("SEED_SAMPLE_NETWORK", true),
		RateLimitRPS:      getEnvFloat("RATE_LIMIT_RPS", 20),
		RateLimitBurst:    getEnvInt("RATE_LIMIT_BURST", 40),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	v, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(defaultValue)))
	if err != nil {
		log.Printf("Invalid %s, using %v", key, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, strconv.Itoa(defaultValue)))
	if err != nil || v <= 0 {
		log.Printf("Invalid %s, using %d", key, defaultValue)
		return defaultValue
	}
	return v
}

func getEnvFloat(key string, defaultValue float64) float64 {
	v, err := strconv.ParseFloat(getEnv(key, strconv.FormatFloat(defaultValue, 'f', -1, 64)), 64)
	if err != nil || v <= 0 {
		log.Printf("Invalid %s, using %v", key, defaultValue)
		return defaultValue
	}
	return v
}
