package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Settlement SettlementConfig `mapstructure:"settlement"`
	Registrar  RegistrarConfig  `mapstructure:"registrar"`
	Wallet     WalletConfig     `mapstructure:"wallet"`
	Redis      RedisConfig      `mapstructure:"redis"`
	Archive    ArchiveConfig    `mapstructure:"archive"`
	Evidence   EvidenceConfig   `mapstructure:"evidence"`
	JWT        JWTConfig        `mapstructure:"jwt"`
	Log        LogConfig        `mapstructure:"log"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug, release, test
}

// SettlementConfig carries the fee policy. Monetary values are strings so
// they survive config parsing without passing through floats.
type SettlementConfig struct {
	FeePercentage   string `mapstructure:"fee_percentage"`   // e.g. "2.5"
	DustThreshold   string `mapstructure:"dust_threshold"`   // fee below this is not collected
	TreasuryAccount string `mapstructure:"treasury_account"` // fee recipient
}

// FeePercent parses the configured fee percentage.
func (s SettlementConfig) FeePercent() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s.FeePercentage)
	if err != nil {
		return decimal.Zero, fmt.Errorf("settlement.fee_percentage: %w", err)
	}
	return d, nil
}

// Dust parses the configured dust threshold.
func (s SettlementConfig) Dust() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s.DustThreshold)
	if err != nil {
		return decimal.Zero, fmt.Errorf("settlement.dust_threshold: %w", err)
	}
	return d, nil
}

// RegistrarConfig carries the registration resolver's retry policy and the
// knobs of the simulated registrar.
type RegistrarConfig struct {
	PollAttempts int           `mapstructure:"poll_attempts"`
	PollDelay    time.Duration `mapstructure:"poll_delay"`
	EmitEvents   bool          `mapstructure:"emit_events"` // simulated registrar: attach events to confirmations
}

// WalletConfig carries the simulated funds-transfer collaborator's knobs.
type WalletConfig struct {
	InitialBalance string `mapstructure:"initial_balance"` // seeded per onboarded agent
	AllowSimulated bool   `mapstructure:"allow_simulated"` // fabricate transfers on insufficient balance
}

// Balance parses the configured initial balance.
func (w WalletConfig) Balance() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(w.InitialBalance)
	if err != nil {
		return decimal.Zero, fmt.Errorf("wallet.initial_balance: %w", err)
	}
	return d, nil
}

type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

// ArchiveConfig configures the optional durable receipt archive. When
// disabled the ledger lives in process memory for the life of the run.
type ArchiveConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"dbname"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (a ArchiveConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		a.User, a.Password, a.Host, a.Port, a.DBName, a.SSLMode,
	)
}

type EvidenceConfig struct {
	GatewayURL string `mapstructure:"gateway_url"` // display-only link base for CIDs
}

type JWTConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty"` // human-readable output (dev only)
}

// Load reads configuration from file and environment variables.
// Environment variables override file values. Prefix: GSL_ (Genesis
// Settlement Ledger). Nested keys use underscore: GSL_SETTLEMENT_FEE_PERCENTAGE,
// GSL_REDIS_HOST, etc.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("settlement.fee_percentage", "2.5")
	v.SetDefault("settlement.dust_threshold", "0.000001")
	v.SetDefault("settlement.treasury_account", "treasury")
	v.SetDefault("registrar.poll_attempts", 3)
	v.SetDefault("registrar.poll_delay", "1s")
	v.SetDefault("registrar.emit_events", true)
	v.SetDefault("wallet.initial_balance", "10")
	v.SetDefault("wallet.allow_simulated", true)
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("archive.enabled", false)
	v.SetDefault("archive.host", "localhost")
	v.SetDefault("archive.port", 5432)
	v.SetDefault("archive.user", "postgres")
	v.SetDefault("archive.password", "postgres")
	v.SetDefault("archive.dbname", "genesis_settlement")
	v.SetDefault("archive.sslmode", "disable")
	v.SetDefault("archive.max_conns", 20)
	v.SetDefault("archive.min_conns", 5)
	v.SetDefault("archive.conn_max_lifetime", "30m")
	v.SetDefault("evidence.gateway_url", "https://gateway.pinata.cloud/ipfs")
	v.SetDefault("jwt.secret", "")
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "genesis-settlement")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// File config
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables: GSL_SETTLEMENT_TREASURY_ACCOUNT -> settlement.treasury_account
	v.SetEnvPrefix("GSL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file (not required, env vars can suffice)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Fail fast on malformed monetary values.
	if _, err := cfg.Settlement.FeePercent(); err != nil {
		return nil, err
	}
	if _, err := cfg.Settlement.Dust(); err != nil {
		return nil, err
	}
	if _, err := cfg.Wallet.Balance(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
