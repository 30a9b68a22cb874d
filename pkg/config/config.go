package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// TicketCeiling bounds MAX_TICKETS and any single ticket request.
const TicketCeiling = 50

type Config struct {
	// Server
	Port string `mapstructure:"PORT"`
	Env  string `mapstructure:"ENV"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Draw source
	DrawSource     string `mapstructure:"DRAW_SOURCE"` // file path, http(s) URL or "database"
	DrawSheet      string `mapstructure:"DRAW_SHEET"`
	DrawHeaderRows int    `mapstructure:"DRAW_HEADER_ROWS"`
	MaxUploadMB    int64  `mapstructure:"MAX_UPLOAD_MB"`

	// Database (optional draw archive)
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Redis (optional session backend)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Sessions
	SessionSecret string        `mapstructure:"SESSION_SECRET"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`

	// CORS
	CorsOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Simulation
	TicketSize int   `mapstructure:"TICKET_SIZE"`
	MaxTickets int   `mapstructure:"MAX_TICKETS"`
	RandomSeed int64 `mapstructure:"RANDOM_SEED"`

	// Background reload
	ReloadSchedule string `mapstructure:"RELOAD_SCHEDULE"`

	// External source resilience
	ExternalAPITimeout      time.Duration `mapstructure:"EXTERNAL_API_TIMEOUT"`
	CircuitBreakerThreshold int           `mapstructure:"CIRCUIT_BREAKER_THRESHOLD"`

	// Rate limiting for generate/export endpoints
	RateLimitRPS   float64 `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int     `mapstructure:"RATE_LIMIT_BURST"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("LOG_FORMAT", "")
	v.SetDefault("DRAW_SOURCE", "mega_sena_asloterias_ate_concurso_2805_crescente.xlsx")
	v.SetDefault("DRAW_SHEET", "mega_sena_www.asloterias.com.br")
	v.SetDefault("DRAW_HEADER_ROWS", 5)
	v.SetDefault("MAX_UPLOAD_MB", 10)
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("SESSION_SECRET", "change-me-session-secret")
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("CORS_ORIGINS", "http://localhost:5173,http://localhost:3000")
	v.SetDefault("TICKET_SIZE", 6)
	v.SetDefault("MAX_TICKETS", TicketCeiling)
	v.SetDefault("RANDOM_SEED", 0) // 0 seeds from the clock
	v.SetDefault("RELOAD_SCHEDULE", "")
	v.SetDefault("EXTERNAL_API_TIMEOUT", "10s")
	v.SetDefault("CIRCUIT_BREAKER_THRESHOLD", 5)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	setDefaults(v)

	// Read from environment
	v.AutomaticEnv()

	// Read config file if exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Parse CORS origins from comma-separated string
	if corsStr := v.GetString("CORS_ORIGINS"); corsStr != "" {
		config.CorsOrigins = strings.Split(corsStr, ",")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate rejects settings the simulator cannot work with.
func (c *Config) Validate() error {
	if c.TicketSize < 1 || c.TicketSize > 60 {
		return fmt.Errorf("TICKET_SIZE must be between 1 and 60, got %d", c.TicketSize)
	}
	if c.MaxTickets < 1 || c.MaxTickets > TicketCeiling {
		return fmt.Errorf("MAX_TICKETS must be between 1 and %d, got %d", TicketCeiling, c.MaxTickets)
	}
	if c.DrawHeaderRows < 0 {
		return fmt.Errorf("DRAW_HEADER_ROWS must not be negative, got %d", c.DrawHeaderRows)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
