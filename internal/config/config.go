package config

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port     string
	DBPath   string
	Domain   string
	Secret   string
	BasePath string
	WSRate   float64
	WSBurst  int
}

// Load reads MRFXP_* variables, after merging an optional .env file from the
// working directory. Variables already set in the environment win.
func Load() *Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("read .env", "err", err)
	}

	return &Config{
		Port:     getEnv("MRFXP_PORT", "8888"),
		DBPath:   getEnv("MRFXP_DB_PATH", "./data/mrfxp.db"),
		Domain:   getEnv("MRFXP_DOMAIN", "localhost"),
		Secret:   getEnv("MRFXP_SECRET", ""),
		BasePath: getEnv("MRFXP_BASE_PATH", "/mrfxp"),
		WSRate:   getEnvFloat("MRFXP_WS_RATE", 20),
		WSBurst:  getEnvInt("MRFXP_WS_BURST", 40),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("invalid integer, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		slog.Warn("invalid number, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}
