// internal/config/config.go
//
// Environment-driven server settings.
//
// Environment variables (defaults in brackets):
//   PORT            [5175]
//   LOG_LEVEL       [info]
//   CLIENT_ORIGIN   [http://localhost:5173]  CORS origin of the web client
//   PUBLIC_ORIGIN   [CLIENT_ORIGIN]          base URL used in share links
//   STORE_BACKEND   [sqlite]                 memory | sqlite | redis
//   DATABASE_PATH   [./data/connections.db]
//   REDIS_ADDR      [localhost:6379]
//   REDIS_PASSWORD  []
//   REDIS_DB        [0]
//
// A .env file in the working directory is loaded first when present.

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port          string
	LogLevel      string
	ClientOrigin  string
	PublicOrigin  string
	StoreBackend  string
	DatabasePath  string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads .env (if any) and the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (Config, error) {
	c := Config{
		Port:          getEnv("PORT", "5175"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ClientOrigin:  getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		StoreBackend:  strings.ToLower(getEnv("STORE_BACKEND", BackendSQLite)),
		DatabasePath:  getEnv("DATABASE_PATH", "./data/connections.db"),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
	}
	c.PublicOrigin = getEnv("PUBLIC_ORIGIN", c.ClientOrigin)

	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("REDIS_DB: %w", err)
		}
		c.RedisDB = n
	}

	switch c.StoreBackend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return Config{}, fmt.Errorf("STORE_BACKEND: unknown backend %q", c.StoreBackend)
	}
	return c, nil
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
