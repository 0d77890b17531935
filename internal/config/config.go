package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config is the full application configuration. Values come from an
// optional yaml file with environment variables taking precedence
// (CBK_DATA_ACCOUNTS_PATH and so on).
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Data     DataConfig     `mapstructure:"data"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Business BusinessConfig `mapstructure:"business"`
}

type ServerConfig struct {
	Port int `mapstructure:"port"`
}

type DataConfig struct {
	AccountsPath     string `mapstructure:"accounts_path"`
	TransactionsPath string `mapstructure:"transactions_path"`
}

type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	AdminKey      string `mapstructure:"admin_key"`
}

type BusinessConfig struct {
	// MaxTxAmountMinor caps a single transaction, in minor units.
	MaxTxAmountMinor int64 `mapstructure:"max_tx_amount_minor"`
	// InterestBasisPoints is the monthly rate in hundredths of a percent.
	InterestBasisPoints int64 `mapstructure:"interest_basis_points"`
}

// Load reads configPath if non-empty, then applies env overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("server.port", 8080)
	v.SetDefault("data.accounts_path", "accounts.db")
	v.SetDefault("data.transactions_path", "transactions.db")
	v.SetDefault("auth.token_ttl_hours", 24)
	// Unmarshal only visits keys viper knows about, so secret-bearing
	// keys need empty defaults for their env overrides to be seen when
	// no config file supplies them.
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.admin_key", "")
	v.SetDefault("business.max_tx_amount_minor", 100_000_000) // 1,000,000.00
	v.SetDefault("business.interest_basis_points", 150)       // 1.5% monthly

	v.SetEnvPrefix("CBK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

// RequireAuth verifies the fields the HTTP server cannot run without.
// The terminal front end and the seeder do not need them.
func (c *Config) RequireAuth() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret (CBK_AUTH_JWT_SECRET) is required")
	}
	return nil
}
