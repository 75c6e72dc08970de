// Package config centralizes server settings. Defaults suit local
// development; environment variables override them in deployment.
package config

import (
	"os"
	"strconv"
)

type Server struct {
	Addr            string  // listen address
	DBPath          string  // sqlite playlist store path
	DefaultPlaylist string  // playlist used when a session names none ("" = built-in default)
	ShuffleDefault  bool    // shuffle flag for the built-in default playlist
	SeriesLength    int     // points-to-win for the default series
	ShowTutorial    bool    // queue a tutorial round before the first real round
	RateLimitRPS    float64 // API requests per second per process
	RateLimitBurst  int
}

func Default() Server {
	return Server{
		Addr:           ":8080",
		DBPath:         "partyrounds.db",
		ShuffleDefault: true,
		SeriesLength:   7,
		RateLimitRPS:   20,
		RateLimitBurst: 40,
	}
}

// FromEnv returns the default configuration with environment overrides
// applied.
func FromEnv() Server {
	cfg := Default()
	cfg.Addr = envStr("LISTEN_ADDR", cfg.Addr)
	cfg.DBPath = envStr("DB_PATH", cfg.DBPath)
	cfg.DefaultPlaylist = envStr("DEFAULT_PLAYLIST", cfg.DefaultPlaylist)
	cfg.ShuffleDefault = envBool("SHUFFLE_DEFAULT", cfg.ShuffleDefault)
	cfg.SeriesLength = envInt("SERIES_LENGTH", cfg.SeriesLength)
	cfg.ShowTutorial = envBool("SHOW_TUTORIAL", cfg.ShowTutorial)
	cfg.RateLimitRPS = envFloat("RATE_LIMIT_RPS", cfg.RateLimitRPS)
	cfg.RateLimitBurst = envInt("RATE_LIMIT_BURST", cfg.RateLimitBurst)
	return cfg
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
