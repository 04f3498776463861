package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Summary   SummaryConfig
	Notifier  NotifierConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds connection settings for the back-office Postgres store.
type DatabaseConfig struct {
	URL string
}

// SummaryConfig captures the cycle-summary policy. The status values encode the
// external transaction system's state machine and are treated as opaque
// configuration; this service only checks membership, never interprets them.
type SummaryConfig struct {
	// CycleShiftHours and CycleBoundaryHour define the business-day rule:
	// created_at is shifted by CycleShiftHours and the shifted hour is compared
	// against CycleBoundaryHour to pick the cycle date.
	CycleShiftHours   int
	CycleBoundaryHour int

	// RechargeAcceptStatuses lists process_status values that make a recharge
	// count (completed / finance confirmed). RedeemMinStatus is the minimum
	// process_status for a redeem to count.
	RechargeAcceptStatuses []int
	RedeemMinStatus        int

	// ExcludedTeamCodes are dropped from every rollup, case-insensitively.
	ExcludedTeamCodes []string

	// DefaultEnt and DefaultDate apply when a summary request carries no team or
	// date filter. Deployment sentinels, not business logic.
	DefaultEnt  string
	DefaultDate string

	// Timezone anchors the 7am-to-7am dashboard stat windows.
	Timezone string
}

// NotifierConfig configures the outbound webhook for scheduled cycle snapshots.
// An empty URL disables delivery.
type NotifierConfig struct {
	WebhookURL string
	AuthToken  string
}

// SchedulerConfig holds cron settings for the daily snapshot job.
type SchedulerConfig struct {
	CronSchedule string
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	rechargeStatuses, err := getenvIntList("SUMMARY_RECHARGE_ACCEPT_STATUSES", []int{4, 5})
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Summary: SummaryConfig{
			CycleShiftHours:        getenvInt("SUMMARY_CYCLE_SHIFT_HOURS", 5),
			CycleBoundaryHour:      getenvInt("SUMMARY_CYCLE_BOUNDARY_HOUR", 7),
			RechargeAcceptStatuses: rechargeStatuses,
			RedeemMinStatus:        getenvInt("SUMMARY_REDEEM_MIN_STATUS", 2),
			ExcludedTeamCodes:      getenvList("SUMMARY_EXCLUDED_TEAMS", []string{"enttest", "enttestz"}),
			DefaultEnt:             getenvWithDefault("SUMMARY_DEFAULT_ENT", "ent1"),
			DefaultDate:            getenvWithDefault("SUMMARY_DEFAULT_DATE", "2025-12-01"),
			Timezone:               getenvWithDefault("TIMEZONE", "UTC"),
		},
		Notifier: NotifierConfig{
			WebhookURL: os.Getenv("SNAPSHOT_WEBHOOK_URL"),
			AuthToken:  os.Getenv("SNAPSHOT_WEBHOOK_TOKEN"),
		},
		Scheduler: SchedulerConfig{
			CronSchedule: getenvWithDefault("SNAPSHOT_CRON_SCHEDULE", "10 7 * * *"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Database.URL == "" {
		return errors.New("DATABASE_URL must be provided")
	}

	if c.Summary.CycleBoundaryHour < 0 || c.Summary.CycleBoundaryHour > 23 {
		return errors.New("SUMMARY_CYCLE_BOUNDARY_HOUR must be between 0 and 23")
	}

	if len(c.Summary.RechargeAcceptStatuses) == 0 {
		return errors.New("SUMMARY_RECHARGE_ACCEPT_STATUSES must not be empty")
	}

	if c.Summary.DefaultDate != "" {
		if _, err := time.Parse("2006-01-02", c.Summary.DefaultDate); err != nil {
			return fmt.Errorf("SUMMARY_DEFAULT_DATE must be YYYY-MM-DD: %w", err)
		}
	}

	if _, err := time.LoadLocation(c.Summary.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE is not a valid location: %w", err)
	}

	if c.Scheduler.CronSchedule == "" {
		return errors.New("SNAPSHOT_CRON_SCHEDULE must be provided")
	}

	return nil
}

// Location resolves the configured timezone. Validate guarantees it parses, so
// callers after Load can rely on the result.
func (s SummaryConfig) Location() *time.Location {
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvList(key string, fallback []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}

func getenvIntList(key string, fallback []int) ([]int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	var out []int
	for _, part := range strings.Split(value, ",") {
		trimmed := strings.TrimSpace(part)
		if trimmed == "" {
			continue
		}
		parsed, err := strconv.Atoi(trimmed)
		if err != nil {
			return nil, fmt.Errorf("%s contains a non-numeric entry %q", key, trimmed)
		}
		out = append(out, parsed)
	}
	if len(out) == 0 {
		return fallback, nil
	}
	return out, nil
}
