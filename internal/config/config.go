package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Server Server
	Import Import
	Ledger Ledger
	Log    Log
}

// Server defines the HTTP listener settings.
type Server struct {
	Host string
	Port int
}

// Import defines limits for CSV uploads.
type Import struct {
	MaxBytes int64 `mapstructure:"max_bytes"`
}

// Ledger defines the totals recomputation policy.
type Ledger struct {
	RecomputeDebounceMS int `mapstructure:"recompute_debounce_ms"`
}

// Log defines logging settings.
type Log struct {
	Level string
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("import.max_bytes", 1<<20)
	viper.SetDefault("ledger.recompute_debounce_ms", 150)
	viper.SetDefault("log.level", "info")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
