package config

import (
	"testing"
	"time"

	"boardroom/internal/game"
)

func TestLoadAPIFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("BOARDROOM_STORE", "memory")

	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr %q want :8080", cfg.Addr)
	}
	if cfg.StoreKind != "memory" {
		t.Fatalf("store kind %q", cfg.StoreKind)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("request timeout %v want default 30s", cfg.RequestTimeout)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 1 {
		t.Fatalf("pool sizing %d/%d want defaults 10/1", cfg.DBMaxConns, cfg.DBMinConns)
	}
	if cfg.Rules.MaxRounds != game.DefaultMaxRounds || cfg.Rules.StartingCash != game.DefaultStartingCash {
		t.Fatalf("rules did not default: %+v", cfg.Rules)
	}
}

func TestLoadAPIFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("BOARDROOM_STORE", "memory")
	t.Setenv("BOARDROOM_MAX_ROUNDS", "5")
	t.Setenv("BOARDROOM_STARTING_CASH", "25000")
	t.Setenv("BOARDROOM_DECK_SEED", "1234")
	t.Setenv("BOARDROOM_REQUEST_TIMEOUT", "45s")
	t.Setenv("BOARDROOM_DB_MAX_CONNS", "20")
	t.Setenv("BOARDROOM_DB_MIN_CONNS", "2")

	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Fatalf("addr %q want :9090", cfg.Addr)
	}
	if cfg.Rules.MaxRounds != 5 || cfg.Rules.StartingCash != 25000 {
		t.Fatalf("overrides ignored: %+v", cfg.Rules)
	}
	if cfg.DeckSeed != 1234 {
		t.Fatalf("deck seed %d want 1234", cfg.DeckSeed)
	}
	if cfg.RequestTimeout != 45*time.Second {
		t.Fatalf("request timeout %v want 45s", cfg.RequestTimeout)
	}
	if cfg.DBMaxConns != 20 || cfg.DBMinConns != 2 {
		t.Fatalf("pool sizing %d/%d want 20/2", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestLoadAPIFromEnvRequiresDatabaseURL(t *testing.T) {
	t.Setenv("BOARDROOM_STORE", "postgres")
	t.Setenv("DATABASE_URL", "")

	if _, err := LoadAPIFromEnv(); err == nil {
		t.Fatalf("expected error without DATABASE_URL")
	}
}

func TestLoadWorkerFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/boardroom")
	t.Setenv("BOARDROOM_REAP_EVERY", "15m")

	cfg, err := LoadWorkerFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ReapEvery != 15*time.Minute {
		t.Fatalf("reap every %v want 15m", cfg.ReapEvery)
	}
	if cfg.GameTTL != 30*24*time.Hour {
		t.Fatalf("game ttl %v want default 720h", cfg.GameTTL)
	}
	if cfg.DBMaxConns != 2 || cfg.DBMinConns != 1 {
		t.Fatalf("pool sizing %d/%d want defaults 2/1", cfg.DBMaxConns, cfg.DBMinConns)
	}
}

func TestEnvHelpersFallBackOnGarbage(t *testing.T) {
	t.Setenv("X_INT", "not-a-number")
	t.Setenv("X_FLOAT", "nope")
	t.Setenv("X_DUR", "eleventy")

	if got := envIntDefault("X_INT", 7); got != 7 {
		t.Fatalf("got %d want 7", got)
	}
	if got := envFloatDefault("X_FLOAT", 1.5); got != 1.5 {
		t.Fatalf("got %v want 1.5", got)
	}
	if got := envDurationDefault("X_DUR", time.Minute); got != time.Minute {
		t.Fatalf("got %v want 1m", got)
	}
}
