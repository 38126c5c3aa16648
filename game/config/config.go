package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/RituKumari998/Coordi/game/rules"
)

var ErrInvalidConfig = errors.New("invalid configuration")

// FileName is the settings file looked up inside the config directory.
const FileName = "coordinator.json"

// Duration wraps time.Duration so JSON settings can use duration strings.
type Duration time.Duration

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

// Config is the coordinator's runtime configuration.
type Config struct {
	// DefaultGame is the rules engine used when a room does not name one.
	DefaultGame string `json:"default_game"`

	// GraceWindow is how long a disconnected seat may reconnect before the
	// room is forfeited.
	GraceWindow Duration `json:"grace_window"`

	// SweepInterval is how often the grace watchdog scans for expired
	// disconnections.
	SweepInterval Duration `json:"sweep_interval"`

	// EndedTTL is how long ended and abandoned rooms stay queryable before
	// eviction.
	EndedTTL Duration `json:"ended_ttl"`

	// LedgerURL is the base URL of the ledger service. Empty means wagers
	// are acknowledged locally (development mode).
	LedgerURL string `json:"ledger_url"`

	// LedgerTimeout bounds each ledger HTTP call.
	LedgerTimeout Duration `json:"ledger_timeout"`

	// LedgerRetries is how many times a failed escrow/payout call is
	// retried before being dropped with an alert.
	LedgerRetries int `json:"ledger_retries"`

	// MaxWager caps a seat's stake. Zero disables the cap.
	MaxWager int64 `json:"max_wager"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DefaultGame:   "chess",
		GraceWindow:   Duration(60 * time.Second),
		SweepInterval: Duration(5 * time.Second),
		EndedTTL:      Duration(30 * time.Minute),
		LedgerTimeout: Duration(10 * time.Second),
		LedgerRetries: 5,
	}
}

// Load reads the configuration file from configDir if present, applies
// environment overrides, and validates the result. A missing file or
// directory is not an error; defaults apply.
func Load(configDir string) (*Config, error) {
	cfg := Default()

	path := filepath.Join(configDir, FileName)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// defaults
	default:
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("COORDI_DEFAULT_GAME"); v != "" {
		cfg.DefaultGame = v
	}
	if v := os.Getenv("COORDI_LEDGER_URL"); v != "" {
		cfg.LedgerURL = v
	}
	if v := os.Getenv("COORDI_GRACE_WINDOW"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.GraceWindow = Duration(d)
		}
	}
	if v := os.Getenv("COORDI_ENDED_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.EndedTTL = Duration(d)
		}
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if _, ok := rules.Lookup(c.DefaultGame); !ok {
		return fmt.Errorf("%w: unknown default game %q (available: %v)", ErrInvalidConfig, c.DefaultGame, rules.Names())
	}
	if c.GraceWindow <= 0 {
		return fmt.Errorf("%w: grace_window must be positive", ErrInvalidConfig)
	}
	if c.SweepInterval <= 0 {
		return fmt.Errorf("%w: sweep_interval must be positive", ErrInvalidConfig)
	}
	if c.EndedTTL <= 0 {
		return fmt.Errorf("%w: ended_ttl must be positive", ErrInvalidConfig)
	}
	if c.LedgerRetries < 1 {
		return fmt.Errorf("%w: ledger_retries must be at least 1", ErrInvalidConfig)
	}
	if c.MaxWager < 0 {
		return fmt.Errorf("%w: max_wager cannot be negative", ErrInvalidConfig)
	}
	return nil
}
