package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSalaryCap is the league-wide ceiling used when SALARY_CAP is unset.
var DefaultSalaryCap = decimal.NewFromInt(224_800_000)

type Config struct {
	DiscordToken        string
	BackendURL          string
	CommandPrefix       string
	LogLevel            string
	CacheDuration       time.Duration
	ProposalTTL         time.Duration
	SeasonYear          int
	SalaryCap           decimal.Decimal
	TagLimit            int
	APIAddr             string
	DataDir             string
	FAValuePerPoint     decimal.Decimal
	TagCostPerPoint     decimal.Decimal
	TransactionsChannel string
}

func Load() (*Config, error) {
	cfg := &Config{
		DiscordToken:        os.Getenv("DISCORD_TOKEN"),
		BackendURL:          getEnvOrDefault("BACKEND_URL", "http://localhost:8000"),
		CommandPrefix:       getEnvOrDefault("COMMAND_PREFIX", "!"),
		LogLevel:            getEnvOrDefault("LOG_LEVEL", "info"),
		CacheDuration:       getMinutesOrDefault("CACHE_DURATION_MINUTES", 5*time.Minute),
		ProposalTTL:         getMinutesOrDefault("PROPOSAL_TTL_MINUTES", 10*time.Minute),
		SeasonYear:          getIntOrDefault("SEASON_YEAR", time.Now().Year()),
		SalaryCap:           getDecimalOrDefault("SALARY_CAP", DefaultSalaryCap),
		TagLimit:            getIntOrDefault("TAG_LIMIT", 1),
		APIAddr:             os.Getenv("API_ADDR"),
		DataDir:             getEnvOrDefault("DATA_DIR", "./data"),
		FAValuePerPoint:     getDecimalOrDefault("FA_VALUE_PER_POINT", decimal.NewFromInt(200_000)),
		TagCostPerPoint:     getDecimalOrDefault("TAG_COST_PER_POINT", decimal.NewFromInt(300_000)),
		TransactionsChannel: getEnvOrDefault("TRANSACTIONS_CHANNEL", "cap-transactions"),
	}

	if cfg.DiscordToken == "" && cfg.APIAddr == "" {
		return nil, fmt.Errorf("either DISCORD_TOKEN or API_ADDR must be set")
	}
	if cfg.TagLimit < 0 {
		return nil, fmt.Errorf("TAG_LIMIT must not be negative, got %d", cfg.TagLimit)
	}
	if cfg.SalaryCap.IsNegative() {
		return nil, fmt.Errorf("SALARY_CAP must not be negative, got %s", cfg.SalaryCap)
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultValue
}

func getMinutesOrDefault(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if minutes, err := strconv.Atoi(v); err == nil && minutes > 0 {
			return time.Duration(minutes) * time.Minute
		}
	}
	return defaultValue
}

func getDecimalOrDefault(key string, defaultValue decimal.Decimal) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return defaultValue
}
