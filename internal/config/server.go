package config

import (
	"os"

	"github.com/joho/godotenv"
)

// ServerConfig configures the local HTTP API. Flags override these values;
// they exist so `bankentry serve` can also be driven by a .env file.
type ServerConfig struct {
	Port    string
	Store   string // "memory", "json", or "sqlite"
	DBPath  string
	LogJSON bool
}

// LoadServer reads server settings from the environment, loading a .env
// file first when one is present.
func LoadServer() ServerConfig {
	_ = godotenv.Load()

	return ServerConfig{
		Port:    getEnv("BANKENTRY_PORT", "8787"),
		Store:   getEnv("BANKENTRY_STORE", "sqlite"),
		DBPath:  getEnv("BANKENTRY_DB", "bankentry.db"),
		LogJSON: getEnv("BANKENTRY_LOG_JSON", "") != "",
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
