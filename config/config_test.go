package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "2.5", cfg.Settlement.FeePercentage)
	assert.Equal(t, "treasury", cfg.Settlement.TreasuryAccount)
	assert.Equal(t, 3, cfg.Registrar.PollAttempts)
	assert.Equal(t, time.Second, cfg.Registrar.PollDelay)
	assert.True(t, cfg.Registrar.EmitEvents)
	assert.True(t, cfg.Wallet.AllowSimulated)
	assert.False(t, cfg.Archive.Enabled)
	assert.Equal(t, "genesis-settlement", cfg.JWT.Issuer)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("GSL_SETTLEMENT_FEE_PERCENTAGE", "5")
	t.Setenv("GSL_REGISTRAR_POLL_ATTEMPTS", "5")
	t.Setenv("GSL_REDIS_HOST", "redis.internal")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "5", cfg.Settlement.FeePercentage)
	assert.Equal(t, 5, cfg.Registrar.PollAttempts)
	assert.Equal(t, "redis.internal:6379", cfg.Redis.Addr())
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9090
settlement:
  fee_percentage: "1.25"
  dust_threshold: "0.01"
archive:
  enabled: true
  dbname: receipts
`)
	require.NoError(t, os.WriteFile(file, content, 0o600))

	cfg, err := Load(file)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.True(t, cfg.Archive.Enabled)
	assert.Contains(t, cfg.Archive.DSN(), "/receipts?")

	pct, err := cfg.Settlement.FeePercent()
	require.NoError(t, err)
	assert.True(t, pct.Equal(decimal.RequireFromString("1.25")))

	dust, err := cfg.Settlement.Dust()
	require.NoError(t, err)
	assert.True(t, dust.Equal(decimal.RequireFromString("0.01")))
}

func TestLoad_MalformedFeePercentage(t *testing.T) {
	t.Setenv("GSL_SETTLEMENT_FEE_PERCENTAGE", "two point five")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fee_percentage")
}

func TestSettlementConfig_Parsers(t *testing.T) {
	s := SettlementConfig{FeePercentage: "2.5", DustThreshold: "0.000001"}

	pct, err := s.FeePercent()
	require.NoError(t, err)
	assert.Equal(t, "2.5", pct.String())

	dust, err := s.Dust()
	require.NoError(t, err)
	assert.Equal(t, "0.000001", dust.String())
}

func TestWalletConfig_Balance(t *testing.T) {
	w := WalletConfig{InitialBalance: "10"}
	bal, err := w.Balance()
	require.NoError(t, err)
	assert.Equal(t, "10", bal.String())

	_, err = WalletConfig{InitialBalance: "lots"}.Balance()
	assert.Error(t, err)
}
