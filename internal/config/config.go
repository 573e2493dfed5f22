// Package config loads application configuration from config.yaml and
// the environment and owns the global logger setup.
package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Solver SolverConfig `yaml:"solver" mapstructure:"solver"`
	Synth  SynthConfig  `yaml:"synth" mapstructure:"synth"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port                int      `yaml:"port" mapstructure:"port"`
	Mode                string   `yaml:"mode" mapstructure:"mode"`
	AllowedOrigins      []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
	MaxConcurrentSolves int      `yaml:"max_concurrent_solves" mapstructure:"max_concurrent_solves"`
	ResultTTLMinutes    int      `yaml:"result_ttl_minutes" mapstructure:"result_ttl_minutes"`
}

// ResultTTL is how long stored optimization results stay retrievable.
func (s ServerConfig) ResultTTL() time.Duration {
	return time.Duration(s.ResultTTLMinutes) * time.Minute
}

// SolverConfig carries the optimizer fallbacks applied when a request
// leaves the corresponding field unset.
type SolverConfig struct {
	Mode               string  `yaml:"mode" mapstructure:"mode"`
	MinPrice           float64 `yaml:"min_price" mapstructure:"min_price"`
	MaxPrice           float64 `yaml:"max_price" mapstructure:"max_price"`
	MinCostRecoveryPct float64 `yaml:"min_cost_recovery_pct" mapstructure:"min_cost_recovery_pct"`
	MaxCostRecoveryPct float64 `yaml:"max_cost_recovery_pct" mapstructure:"max_cost_recovery_pct"`
	TimeoutSecs        int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Timeout is the per-solve wall clock budget.
func (s SolverConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSecs) * time.Second
}

// SynthConfig configures synthetic dataset generation.
type SynthConfig struct {
	Households int    `yaml:"households" mapstructure:"households"`
	Days       int    `yaml:"days" mapstructure:"days"`
	Seed       uint64 `yaml:"seed" mapstructure:"seed"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TARIFF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.max_concurrent_solves", 4)
	v.SetDefault("server.result_ttl_minutes", 60)
	v.SetDefault("solver.mode", "regulated")
	v.SetDefault("solver.min_price", 0.05)
	v.SetDefault("solver.max_price", 0.50)
	v.SetDefault("solver.min_cost_recovery_pct", 100)
	v.SetDefault("solver.max_cost_recovery_pct", 150)
	v.SetDefault("solver.timeout_secs", 30)
	v.SetDefault("synth.households", 50)
	v.SetDefault("synth.days", 7)
	v.SetDefault("synth.seed", 42)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
