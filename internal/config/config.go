package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"boardroom/internal/game"
)

type APIConfig struct {
	Addr        string
	DatabaseURL string
	// StoreKind selects "postgres" or "memory". Memory is for local play
	// and tests only; state does not survive a restart.
	StoreKind      string
	DeckSeed       int64
	RequestTimeout time.Duration
	DBMaxConns     int32
	DBMinConns     int32
	Rules          game.Rules
}

type WorkerConfig struct {
	DatabaseURL string
	ReapEvery   time.Duration
	GameTTL     time.Duration
	DBMaxConns  int32
	DBMinConns  int32
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("BOARDROOM_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:           addr,
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		StoreKind:      envStoreKindDefault(),
		DeckSeed:       envInt64Default("BOARDROOM_DECK_SEED", time.Now().UnixNano()),
		RequestTimeout: envDurationDefault("BOARDROOM_REQUEST_TIMEOUT", 30*time.Second),
		DBMaxConns:     int32(envIntDefault("BOARDROOM_DB_MAX_CONNS", 10)),
		DBMinConns:     int32(envIntDefault("BOARDROOM_DB_MIN_CONNS", 1)),
		Rules: game.Rules{
			MaxRounds:            envIntDefault("BOARDROOM_MAX_ROUNDS", game.DefaultMaxRounds),
			TurnsPerRound:        envIntDefault("BOARDROOM_TURNS_PER_ROUND", game.DefaultTurnsPerRound),
			StartingCash:         envFloatDefault("BOARDROOM_STARTING_CASH", game.DefaultStartingCash),
			PriceFloor:           envFloatDefault("BOARDROOM_PRICE_FLOOR", 0),
			ChairmanThreshold:    envFloatDefault("BOARDROOM_CHAIRMAN_THRESHOLD", game.DefaultChairmanThreshold),
			DirectorThreshold:    envFloatDefault("BOARDROOM_DIRECTOR_THRESHOLD", game.DefaultDirectorThreshold),
			HandEvents:           envIntDefault("BOARDROOM_HAND_EVENTS", game.DefaultHandEvents),
			HandCorporateActions: envIntDefault("BOARDROOM_HAND_CORPORATE_ACTIONS", game.DefaultHandCorporateActions),
		},
	}
	if cfg.StoreKind == "postgres" && cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required when BOARDROOM_STORE=postgres")
	}
	return cfg, nil
}

func LoadWorkerFromEnv() (WorkerConfig, error) {
	cfg := WorkerConfig{
		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		ReapEvery:   envDurationDefault("BOARDROOM_REAP_EVERY", time.Hour),
		GameTTL:     envDurationDefault("BOARDROOM_GAME_TTL", 30*24*time.Hour),
		// The reaper runs one statement at a time; a small pool is plenty.
		DBMaxConns: int32(envIntDefault("BOARDROOM_DB_MAX_CONNS", 2)),
		DBMinConns: int32(envIntDefault("BOARDROOM_DB_MIN_CONNS", 1)),
	}
	if cfg.DatabaseURL == "" {
		return cfg, fmt.Errorf("DATABASE_URL is required")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("BRM_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func envDurationDefault(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func envStoreKindDefault() string {
	switch strings.ToLower(strings.TrimSpace(os.Getenv("BOARDROOM_STORE"))) {
	case "memory":
		return "memory"
	default:
		return "postgres"
	}
}
