package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rustyeddy/smartfolio/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NotNil(t, cfg)
	assert.Equal(t, "sui", cfg.DefaultAccount)
	assert.Equal(t, []string{"sui", "alts"}, cfg.AccountIDs())
	assert.NoError(t, cfg.Validate())

	sui, ok := cfg.Account("sui")
	require.True(t, ok)
	assert.Equal(t, "SUI", sui.Anchor)
	assert.Len(t, sui.Orders, 5)
	assert.Equal(t, 450.0, sui.Recycled)

	alts, ok := cfg.Account("alts")
	require.True(t, ok)
	assert.Empty(t, alts.Anchor)
}

func TestPolicy(t *testing.T) {
	sui, _ := Default().Account("sui")
	p := sui.Policy()
	assert.Equal(t, "SUI", p.Anchor)
	assert.Equal(t, 1.0, p.FeePercent)
	assert.Equal(t, 40.0, p.AnchorTarget.Min)
	assert.Equal(t, 25.0, p.CashTarget.Ideal)
	assert.Equal(t, 65.0, p.MaxConcentration)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		errMsg string
	}{
		{"valid config", func(c *Config) {}, ""},
		{"memory driver", func(c *Config) { c.Storage = StorageConfig{Driver: "memory"} }, ""},
		{"bad driver", func(c *Config) { c.Storage.Driver = "postgres" }, "storage.driver must be"},
		{"sqlite without path", func(c *Config) { c.Storage.Path = "" }, "storage.path required"},
		{"bad interval", func(c *Config) { c.Simulator.Interval = "soon" }, "simulator.interval"},
		{"bad volatility", func(c *Config) { c.Simulator.Volatility["SUI"] = 2 }, "simulator.volatility[SUI]"},
		{"no accounts", func(c *Config) { c.Accounts = nil }, "at least one account"},
		{"duplicate account", func(c *Config) { c.Accounts[1].ID = "sui" }, "duplicate account id"},
		{"unknown default", func(c *Config) { c.DefaultAccount = "ira" }, "default_account"},
		{"missing cash", func(c *Config) {
			c.Accounts[0].Assets = c.Accounts[0].Assets[:4]
		}, "cash asset is required"},
		{"anchor not an asset", func(c *Config) { c.Accounts[0].Anchor = "ETH" }, "anchor \"ETH\" is not an asset"},
		{"bad price", func(c *Config) { c.Accounts[0].Assets[1].CurrentPrice = 0 }, "currentPrice must be positive"},
		{"bad fee", func(c *Config) { c.Accounts[1].Strategy.TradeFeePercent = -1 }, "trade_fee_percent"},
		{"bad order", func(c *Config) { c.Accounts[0].Orders[0].Units = 0 }, "order \"41dad42\" is invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		ext  string
	}{
		{"json format", ".json"},
		{"yaml format", ".yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			path := filepath.Join(tmpDir, "test"+tt.ext)

			require.NoError(t, cfg.SaveToFile(path))
			_, err := os.Stat(path)
			require.NoError(t, err)

			loaded, err := LoadFromFile(path)
			require.NoError(t, err)

			assert.Equal(t, cfg.DefaultAccount, loaded.DefaultAccount)
			assert.Equal(t, cfg.Storage, loaded.Storage)
			assert.Equal(t, cfg.AccountIDs(), loaded.AccountIDs())

			sui, _ := loaded.Account("sui")
			want, _ := cfg.Account("sui")
			assert.Equal(t, want.Orders, sui.Orders)
			assert.Equal(t, want.Strategy.Thresholds, sui.Strategy.Thresholds)
			require.Len(t, sui.Assets, len(want.Assets))
			assert.Equal(t, want.Assets[0].Units, sui.Assets[0].Units)
			assert.Equal(t, *want.Assets[0].TotalCost, *sui.Assets[0].TotalCost)
		})
	}
}

func TestLoadInvalidFile(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestLoadYAMLSnippet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.yaml")
	data := `
storage:
  driver: memory
simulator:
  interval: 1s
  default_volatility: 0.002
default_account: main
accounts:
  - id: main
    name: Main
    anchor: ETH
    assets:
      - symbol: ETH
        name: Ether
        units: 2
        currentPrice: 3000
        totalCost: 5000
      - symbol: USD
        name: Cash
        units: 1000
    strategy:
      trade_fee_percent: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	acct, ok := cfg.Account("main")
	require.True(t, ok)
	assert.Equal(t, "ETH", acct.Anchor)
	assert.Equal(t, 0.5, acct.Strategy.TradeFeePercent)
	require.NotNil(t, acct.Assets[0].TotalCost)
	assert.Equal(t, 5000.0, *acct.Assets[0].TotalCost)
	assert.Equal(t, ledger.CashSymbol, acct.Assets[1].Symbol)

	d, err := cfg.Simulator.ParseInterval()
	require.NoError(t, err)
	assert.Equal(t, "1s", d.String())
}

func TestApplyEnv(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SMARTFOLIO_PREFIX=test_\n"), 0644))

	t.Setenv(EnvDB, "/tmp/folio.db")
	t.Setenv(EnvAccount, "alts")
	t.Setenv(EnvAddr, ":9090")
	t.Cleanup(func() { _ = os.Unsetenv(EnvPrefix) })

	cfg := Default()
	cfg.Storage.Driver = "memory"
	cfg.ApplyEnv(envFile, filepath.Join(t.TempDir(), "missing.env"))

	assert.Equal(t, "sqlite", cfg.Storage.Driver)
	assert.Equal(t, "/tmp/folio.db", cfg.Storage.Path)
	assert.Equal(t, "test_", cfg.Storage.Prefix)
	assert.Equal(t, "alts", cfg.DefaultAccount)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.NoError(t, cfg.Validate())
}
