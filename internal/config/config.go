package config

import (
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/bankentry-dev/bankentry/internal/dates"
	"github.com/bankentry-dev/bankentry/internal/money"
)

// FileName is the workspace configuration file written by init.
const FileName = "bankentry.yaml"

// Config represents the top-level bankentry.yaml configuration.
type Config struct {
	Workspace WorkspaceConfig `yaml:"workspace"`
	Dates     DatesConfig     `yaml:"dates"`
	Balances  BalancesConfig  `yaml:"balances"`
	Git       GitConfig       `yaml:"git"`
}

// WorkspaceConfig identifies the workspace and its ledger file.
type WorkspaceConfig struct {
	Name       string `yaml:"name"`
	LedgerFile string `yaml:"ledger_file"`
}

// DatesConfig selects how ambiguous day/month dates are interpreted.
type DatesConfig struct {
	Mode           string `yaml:"mode"`            // "dual" or "strict"
	PreferredOrder string `yaml:"preferred_order"` // "day_first" or "month_first"
}

// Normalizer builds the date normalizer the config describes.
func (d DatesConfig) Normalizer() (dates.Normalizer, error) {
	var n dates.Normalizer

	switch d.Mode {
	case string(dates.ModeDual):
		n.Mode = dates.ModeDual
	case string(dates.ModeStrict):
		n.Mode = dates.ModeStrict
	default:
		return dates.Normalizer{}, fmt.Errorf("unknown dates.mode %q (want %q or %q)", d.Mode, dates.ModeDual, dates.ModeStrict)
	}

	switch d.PreferredOrder {
	case string(dates.DayFirst):
		n.Preferred = dates.DayFirst
	case string(dates.MonthFirst):
		n.Preferred = dates.MonthFirst
	default:
		return dates.Normalizer{}, fmt.Errorf("unknown dates.preferred_order %q (want %q or %q)", d.PreferredOrder, dates.DayFirst, dates.MonthFirst)
	}

	return n, nil
}

// BalancesConfig holds the opening balance and an optional target closing
// balance, both as plain decimal strings.
type BalancesConfig struct {
	Opening       string `yaml:"opening"`
	TargetClosing string `yaml:"target_closing,omitempty"`
}

// OpeningBalance parses the configured opening balance. Empty means zero.
func (b BalancesConfig) OpeningBalance() (decimal.Decimal, error) {
	if b.Opening == "" {
		return decimal.Zero, nil
	}
	d, err := money.Parse(b.Opening)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("balances.opening: %w", err)
	}
	return d, nil
}

// TargetClosingBalance parses the target closing balance, if set.
func (b BalancesConfig) TargetClosingBalance() (*decimal.Decimal, error) {
	if b.TargetClosing == "" {
		return nil, nil
	}
	d, err := money.Parse(b.TargetClosing)
	if err != nil {
		return nil, fmt.Errorf("balances.target_closing: %w", err)
	}
	return &d, nil
}

// GitConfig controls git snapshotting of the workspace.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a bankentry.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new workspace.
func Default(name string) *Config {
	return &Config{
		Workspace: WorkspaceConfig{
			Name:       name,
			LedgerFile: "ledger.json",
		},
		Dates: DatesConfig{
			Mode:           string(dates.ModeDual),
			PreferredOrder: string(dates.DayFirst),
		},
		Balances: BalancesConfig{
			Opening: "0",
		},
		Git: GitConfig{
			AutoCommit:  true,
			AuthorName:  "bankentry",
			AuthorEmail: "ledger@bankentry.dev",
		},
	}
}
