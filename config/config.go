package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"tournament-settlement-system/settlement"
)

// R2 holds Cloudflare R2 credentials for the receipt archive. Empty AccountID disables it.
type R2 struct {
	AccountID       string
	AccessKeyID     string
	AccessKeySecret string
	Bucket          string
}

// Enabled reports whether enough settings are present to talk to R2.
func (r R2) Enabled() bool {
	return r.AccountID != "" && r.AccessKeyID != "" && r.AccessKeySecret != "" && r.Bucket != ""
}

type Config struct {
	DatabaseURL            string
	Port                   string
	GatewayToken           string
	AllowedOrigins         string
	LogLevel               string
	LogFormat              string
	RedistributionInterval time.Duration
	R2                     R2
	Policy                 settlement.Policy
}

// Load reads .env (if present) and the environment, then the tax policy file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		Port:           getEnv("PORT", "5200"),
		GatewayToken:   os.Getenv("GAME_SERVICE_TOKEN"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		R2: R2{
			AccountID:       os.Getenv("CLOUDFLARE_ACCOUNT_ID"),
			AccessKeyID:     os.Getenv("R2_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("R2_ACCESS_KEY_SECRET"),
			Bucket:          os.Getenv("R2_BUCKET_NAME"),
		},
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}
	if cfg.GatewayToken == "" {
		return nil, fmt.Errorf("GAME_SERVICE_TOKEN environment variable is not set")
	}

	interval, err := time.ParseDuration(getEnv("REDISTRIBUTION_INTERVAL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDISTRIBUTION_INTERVAL: %w", err)
	}
	if interval <= 0 {
		return nil, fmt.Errorf("REDISTRIBUTION_INTERVAL must be positive, got %s", interval)
	}
	cfg.RedistributionInterval = interval

	policy, err := LoadPolicy(os.Getenv("TAX_POLICY_FILE"))
	if err != nil {
		return nil, err
	}
	if raw := os.Getenv("DEFAULT_PLACEMENTS"); raw != "" {
		placements, err := ParsePlacements(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid DEFAULT_PLACEMENTS: %w", err)
		}
		policy.DefaultPlacements = placements
		if err := policy.Validate(); err != nil {
			return nil, err
		}
	}
	cfg.Policy = policy

	return cfg, nil
}

// ParsePlacements reads "340,140" as positions 1 and 2.
func ParsePlacements(raw string) ([]settlement.Placement, error) {
	var placements []settlement.Placement
	for i, part := range strings.Split(raw, ",") {
		amount, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("placement %d: %w", i+1, err)
		}
		placements = append(placements, settlement.Placement{Position: i + 1, Amount: amount})
	}
	return settlement.NormalizePlacements(placements)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
