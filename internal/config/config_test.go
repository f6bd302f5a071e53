package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("SALARY_CAP", "")
	t.Setenv("TAG_LIMIT", "")
	t.Setenv("CACHE_DURATION_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.SalaryCap.Equal(decimal.NewFromInt(224_800_000)) {
		t.Errorf("SalaryCap = %s, want 224800000", cfg.SalaryCap)
	}
	if cfg.TagLimit != 1 {
		t.Errorf("TagLimit = %d, want 1", cfg.TagLimit)
	}
	if cfg.CacheDuration != 5*time.Minute {
		t.Errorf("CacheDuration = %v, want 5m", cfg.CacheDuration)
	}
	if cfg.CommandPrefix != "!" {
		t.Errorf("CommandPrefix = %q, want !", cfg.CommandPrefix)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("API_ADDR", ":8080")
	t.Setenv("SALARY_CAP", "255400000")
	t.Setenv("TAG_LIMIT", "2")
	t.Setenv("CACHE_DURATION_MINUTES", "15")
	t.Setenv("SEASON_YEAR", "2025")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if !cfg.SalaryCap.Equal(decimal.NewFromInt(255_400_000)) {
		t.Errorf("SalaryCap = %s", cfg.SalaryCap)
	}
	if cfg.TagLimit != 2 || cfg.SeasonYear != 2025 || cfg.CacheDuration != 15*time.Minute {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadFallsBackOnGarbage(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("TAG_LIMIT", "many")
	t.Setenv("SALARY_CAP", "lots")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TagLimit != 1 {
		t.Errorf("TagLimit = %d, want default 1", cfg.TagLimit)
	}
	if !cfg.SalaryCap.Equal(DefaultSalaryCap) {
		t.Errorf("SalaryCap = %s, want default", cfg.SalaryCap)
	}
}

func TestLoadRequiresASurface(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("API_ADDR", "")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error without token or api addr")
	}
}

func TestLoadRejectsNegativeTagLimit(t *testing.T) {
	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("TAG_LIMIT", "-1")

	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil, want error for negative tag limit")
	}
}
