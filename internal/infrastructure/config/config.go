package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	APIBaseURL     string        `mapstructure:"api_base_url"`
	DataDir        string        `mapstructure:"data_dir"`
	HTTPTimeout    time.Duration `mapstructure:"http_timeout"`
	CurrencySymbol string        `mapstructure:"currency_symbol"`
	DecimalSep     string        `mapstructure:"decimal_sep"`
	LogLevel       string        `mapstructure:"log_level"`
}

// Load reads configuration from an optional file plus FINANCAS_* environment
// variables. An empty configPath uses defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	v.SetDefault("api_base_url", "https://financaspro-back.onrender.com")
	v.SetDefault("data_dir", ".financas")
	v.SetDefault("http_timeout", 10*time.Second)
	v.SetDefault("currency_symbol", "R$")
	v.SetDefault("decimal_sep", ",")
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("FINANCAS")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}
