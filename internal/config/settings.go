package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/azan1ud/landlordshield/internal/common"
	"github.com/azan1ud/landlordshield/internal/model"
)

// Defaults applied before any config file or environment is read.
const (
	DefaultDatabasePath  = "~/.local/share/shield/shield.db"
	DefaultServerAddr    = "127.0.0.1:8080"
	DefaultUpcomingLimit = 10
	DefaultOwnerID       = "default"
)

// SetDefaults registers every key's default value on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)
	v.SetDefault("owner.id", DefaultOwnerID)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("compliance.exclude_empty_domains", false)
	v.SetDefault("deadlines.filter_by_threshold", false)
	v.SetDefault("deadlines.upcoming_limit", DefaultUpcomingLimit)
	v.SetDefault("server.addr", DefaultServerAddr)
	v.SetDefault("income.joint", false)
	v.SetDefault("income.shielded", false)
}

// Settings is the resolved application configuration.
type Settings struct {
	// Now is the configured clock override; nil means the wall clock.
	Now                 *time.Time
	Income              *model.ThresholdInput
	DatabasePath        string
	OwnerID             string
	ServerAddr          string
	UpcomingLimit       int
	ExcludeEmptyDomains bool
	FilterByThreshold   bool
}

// Load resolves Settings from v.
func Load(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		DatabasePath:        ExpandPath(v.GetString("database.path")),
		OwnerID:             v.GetString("owner.id"),
		ServerAddr:          v.GetString("server.addr"),
		UpcomingLimit:       v.GetInt("deadlines.upcoming_limit"),
		ExcludeEmptyDomains: v.GetBool("compliance.exclude_empty_domains"),
		FilterByThreshold:   v.GetBool("deadlines.filter_by_threshold"),
	}

	if s.DatabasePath == "" {
		return nil, fmt.Errorf("%w: database.path is empty", common.ErrInvalidConfig)
	}
	if s.OwnerID == "" {
		s.OwnerID = DefaultOwnerID
	}

	if raw := v.GetString("clock.now"); raw != "" {
		now, err := ParseClock(raw)
		if err != nil {
			return nil, err
		}
		s.Now = &now
	}

	income, err := loadIncome(v)
	if err != nil {
		return nil, err
	}
	s.Income = income

	return s, nil
}

// Clock returns the configured override or the current time.
func (s *Settings) Clock() time.Time {
	if s.Now != nil {
		return *s.Now
	}
	return time.Now()
}

// ParseClock accepts RFC3339 or a bare YYYY-MM-DD date (midnight UTC).
func ParseClock(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: clock.now %q is not RFC3339 or YYYY-MM-DD", common.ErrInvalidConfig, raw)
}

// loadIncome returns nil when no income figures are configured.
func loadIncome(v *viper.Viper) (*model.ThresholdInput, error) {
	rawA := v.GetString("income.gross_a")
	rawB := v.GetString("income.gross_b")
	if rawA == "" && rawB == "" {
		return nil, nil
	}

	a, err := ParseAmount(rawA)
	if err != nil {
		return nil, fmt.Errorf("income.gross_a: %w", err)
	}
	b, err := ParseAmount(rawB)
	if err != nil {
		return nil, fmt.Errorf("income.gross_b: %w", err)
	}

	return &model.ThresholdInput{
		GrossIncomeA:     a,
		GrossIncomeB:     b,
		IsJointOwnership: v.GetBool("income.joint"),
		IsIncomeShielded: v.GetBool("income.shielded"),
	}, nil
}

// ParseAmount parses a non-negative money amount. Empty means zero.
func ParseAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", common.ErrInvalidAmount, raw)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", common.ErrInvalidAmount, raw)
	}
	return d, nil
}
