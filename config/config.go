package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/rustyeddy/smartfolio/orders"
	"github.com/rustyeddy/smartfolio/risk"
	"github.com/rustyeddy/smartfolio/store"
	"gopkg.in/yaml.v3"
)

// Config is the complete static configuration: where state is stored, how
// prices are simulated and the seed book and strategy of every account.
type Config struct {
	Storage        StorageConfig   `json:"storage" yaml:"storage"`
	Simulator      SimulatorConfig `json:"simulator" yaml:"simulator"`
	Server         ServerConfig    `json:"server" yaml:"server"`
	DefaultAccount string          `json:"default_account" yaml:"default_account"`
	Accounts       []AccountConfig `json:"accounts" yaml:"accounts"`
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `json:"driver" yaml:"driver"` // "sqlite" or "memory"
	Path   string `json:"path,omitempty" yaml:"path,omitempty"`
	Prefix string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

// SimulatorConfig contains price simulation parameters
type SimulatorConfig struct {
	Interval          string             `json:"interval" yaml:"interval"` // e.g. "5s"
	DefaultVolatility float64            `json:"default_volatility" yaml:"default_volatility"`
	Volatility        map[string]float64 `json:"volatility,omitempty" yaml:"volatility,omitempty"`
	Seed              int64              `json:"seed,omitempty" yaml:"seed,omitempty"`
	TrendWindow       int                `json:"trend_window,omitempty" yaml:"trend_window,omitempty"`
}

// ParseInterval converts the interval string to a time.Duration.
func (s SimulatorConfig) ParseInterval() (time.Duration, error) {
	if s.Interval == "" {
		return 0, nil
	}
	return time.ParseDuration(s.Interval)
}

type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr"`
}

// AccountConfig is the seed state and strategy of one account.
type AccountConfig struct {
	ID       string               `json:"id" yaml:"id"`
	Name     string               `json:"name" yaml:"name"`
	Anchor   string               `json:"anchor,omitempty" yaml:"anchor,omitempty"`
	Assets   []ledger.Position    `json:"assets" yaml:"assets"`
	Orders   []orders.Order       `json:"orders,omitempty" yaml:"orders,omitempty"`
	Recycled float64              `json:"recycled,omitempty" yaml:"recycled,omitempty"`
	Target   float64              `json:"target,omitempty" yaml:"target,omitempty"`
	Trends   map[string][]float64 `json:"trends,omitempty" yaml:"trends,omitempty"`
	Strategy StrategyConfig       `json:"strategy" yaml:"strategy"`
}

// StrategyConfig is the read-only allocation policy of an account.
type StrategyConfig struct {
	Name            string           `json:"name" yaml:"name"`
	TradeFeePercent float64          `json:"trade_fee_percent" yaml:"trade_fee_percent"`
	Targets         TargetsConfig    `json:"targets" yaml:"targets"`
	Thresholds      ThresholdsConfig `json:"thresholds" yaml:"thresholds"`
	Rules           []string         `json:"rules,omitempty" yaml:"rules,omitempty"`
}

type TargetsConfig struct {
	Anchor risk.Band `json:"anchor" yaml:"anchor"`
	Alts   risk.Band `json:"alts" yaml:"alts"`
	Cash   risk.Band `json:"cash" yaml:"cash"`
}

type ThresholdsConfig struct {
	AltProfitTakeMin   float64 `json:"alt_profit_take_min" yaml:"alt_profit_take_min"`
	AltProfitTakeMax   float64 `json:"alt_profit_take_max" yaml:"alt_profit_take_max"`
	AltDipEntryPercent float64 `json:"alt_dip_entry_percent" yaml:"alt_dip_entry_percent"`
	CashCriticalBelow  float64 `json:"cash_critical_below" yaml:"cash_critical_below"`
	CashHealthyAbove   float64 `json:"cash_healthy_above" yaml:"cash_healthy_above"`
	MaxConcentration   float64 `json:"max_concentration" yaml:"max_concentration"`
	DrawdownAlert      float64 `json:"drawdown_alert,omitempty" yaml:"drawdown_alert,omitempty"`
	RebalanceBand      float64 `json:"rebalance_band,omitempty" yaml:"rebalance_band,omitempty"`
}

// Policy converts the account strategy into a risk policy.
func (a AccountConfig) Policy() risk.Policy {
	s := a.Strategy
	return risk.Policy{
		Anchor:             a.Anchor,
		AnchorTarget:       s.Targets.Anchor,
		AltTarget:          s.Targets.Alts,
		CashTarget:         s.Targets.Cash,
		FeePercent:         s.TradeFeePercent,
		AltProfitTakeMin:   s.Thresholds.AltProfitTakeMin,
		AltProfitTakeMax:   s.Thresholds.AltProfitTakeMax,
		AltDipEntryPercent: s.Thresholds.AltDipEntryPercent,
		CashCriticalBelow:  s.Thresholds.CashCriticalBelow,
		CashHealthyAbove:   s.Thresholds.CashHealthyAbove,
		MaxConcentration:   s.Thresholds.MaxConcentration,
		DrawdownAlert:      s.Thresholds.DrawdownAlert,
		RebalanceBand:      s.Thresholds.RebalanceBand,
	}
}

// Account returns the account with the given id.
func (c *Config) Account(id string) (AccountConfig, bool) {
	for _, a := range c.Accounts {
		if a.ID == id {
			return a, true
		}
	}
	return AccountConfig{}, false
}

// AccountIDs lists the configured account ids in order.
func (c *Config) AccountIDs() []string {
	ids := make([]string, len(c.Accounts))
	for i, a := range c.Accounts {
		ids[i] = a.ID
	}
	return ids
}

// LoadFromFile loads configuration from a file (JSON or YAML based on extension)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Environment variables read by ApplyEnv.
const (
	EnvDB      = "SMARTFOLIO_DB"
	EnvPrefix  = "SMARTFOLIO_PREFIX"
	EnvAccount = "SMARTFOLIO_ACCOUNT"
	EnvAddr    = "SMARTFOLIO_ADDR"
)

// ApplyEnv loads the given .env files, ignoring missing ones, then lets
// SMARTFOLIO_* variables override storage, default account and server
// address.
func (c *Config) ApplyEnv(files ...string) {
	for _, f := range files {
		_ = godotenv.Load(f)
	}
	if v := os.Getenv(EnvDB); v != "" {
		c.Storage.Driver = "sqlite"
		c.Storage.Path = v
	}
	if v := os.Getenv(EnvPrefix); v != "" {
		c.Storage.Prefix = v
	}
	if v := os.Getenv(EnvAccount); v != "" {
		c.DefaultAccount = v
	}
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "memory":
	case "sqlite":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path required for sqlite driver")
		}
	default:
		return fmt.Errorf("storage.driver must be 'sqlite' or 'memory'")
	}

	d, err := c.Simulator.ParseInterval()
	if err != nil {
		return fmt.Errorf("simulator.interval: %w", err)
	}
	if d < 0 {
		return fmt.Errorf("simulator.interval must not be negative")
	}
	if c.Simulator.DefaultVolatility < 0 || c.Simulator.DefaultVolatility >= 1 {
		return fmt.Errorf("simulator.default_volatility must be between 0 and 1")
	}
	for sym, v := range c.Simulator.Volatility {
		if v < 0 || v >= 1 {
			return fmt.Errorf("simulator.volatility[%s] must be between 0 and 1", sym)
		}
	}

	if len(c.Accounts) == 0 {
		return fmt.Errorf("at least one account is required")
	}
	seen := map[string]bool{}
	for _, a := range c.Accounts {
		if a.ID == "" {
			return fmt.Errorf("account.id is required")
		}
		if seen[a.ID] {
			return fmt.Errorf("duplicate account id %q", a.ID)
		}
		seen[a.ID] = true
		if err := a.validate(); err != nil {
			return fmt.Errorf("account %q: %w", a.ID, err)
		}
	}
	if _, ok := c.Account(c.DefaultAccount); !ok {
		return fmt.Errorf("default_account %q is not a configured account", c.DefaultAccount)
	}
	return nil
}

func (a AccountConfig) validate() error {
	hasCash := false
	symbols := map[string]bool{}
	for _, p := range a.Assets {
		if p.Symbol == "" {
			return fmt.Errorf("asset symbol is required")
		}
		if symbols[p.Symbol] {
			return fmt.Errorf("duplicate asset %q", p.Symbol)
		}
		symbols[p.Symbol] = true
		if p.IsCash() {
			hasCash = true
			continue
		}
		if p.Units < 0 || math.IsNaN(p.Units) {
			return fmt.Errorf("asset %q units must not be negative", p.Symbol)
		}
		if p.CurrentPrice <= 0 {
			return fmt.Errorf("asset %q currentPrice must be positive", p.Symbol)
		}
	}
	if !hasCash {
		return fmt.Errorf("a %s cash asset is required", ledger.CashSymbol)
	}
	if a.Anchor != "" && !symbols[a.Anchor] {
		return fmt.Errorf("anchor %q is not an asset", a.Anchor)
	}
	if a.Anchor == ledger.CashSymbol {
		return fmt.Errorf("anchor cannot be the cash asset")
	}
	if f := a.Strategy.TradeFeePercent; f < 0 || f >= 100 {
		return fmt.Errorf("strategy.trade_fee_percent must be between 0 and 100")
	}
	for _, o := range a.Orders {
		if o.ID == "" || !o.Valid() {
			return fmt.Errorf("order %q is invalid", o.ID)
		}
	}
	return nil
}

// Default returns the configuration with both seeded accounts.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			Driver: "sqlite",
			Path:   "./smartfolio.sqlite",
			Prefix: store.DefaultPrefix,
		},
		Simulator: SimulatorConfig{
			Interval:          "5s",
			DefaultVolatility: 0.001,
			Volatility:        map[string]float64{"SUI": 0.0005},
			TrendWindow:       7,
		},
		Server:         ServerConfig{Addr: ":8080"},
		DefaultAccount: "sui",
		Accounts:       []AccountConfig{anchorAccount(), rotationAccount()},
	}
}
