package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the server.
type Config struct {
	Port string
	Env  string

	// Maximum participants per room
	RoomCap int

	// Socket read-path rate limiting
	MessagesPerSecond float64
	MessageBurst      int
}

// Load reads configuration from environment variables. In development it
// loads from a .env file if present.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("ENV", "development"),
		RoomCap:           getEnvInt("SKETCHROOM_ROOM_CAP", 15),
		MessagesPerSecond: float64(getEnvInt("SKETCHROOM_MESSAGES_PER_SECOND", 100)),
		MessageBurst:      getEnvInt("SKETCHROOM_MESSAGE_BURST", 200),
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		return defaultValue
	}
	return n
}
