package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log        Logger     `mapstructure:"logger"`
	Model      Model      `mapstructure:"model"`
	Simulation Simulation `mapstructure:"simulation"`
	Runner     Runner     `mapstructure:"runner"`
	Cache      Cache      `mapstructure:"cache"`
}

type Logger struct {
	Level    string `mapstructure:"level"`
	Encoding string `mapstructure:"encoding"`
}

type Model struct {
	Path           string `mapstructure:"path"`
	DefaultType    string `mapstructure:"default_type"`
	DefaultVersion string `mapstructure:"default_version"`
}

type Simulation struct {
	InitialBalance      float64 `mapstructure:"initial_balance"`
	Leverage            int     `mapstructure:"leverage"`
	RiskFactor          float64 `mapstructure:"risk_factor"`
	SpreadPips          float64 `mapstructure:"spread_pips"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	MaxOpenPositions    int     `mapstructure:"max_open_positions"`
	TakeProfitATR       float64 `mapstructure:"take_profit_atr"`
	StopLossATR         float64 `mapstructure:"stop_loss_atr"`
}

type Runner struct {
	MaxConcurrency  int           `mapstructure:"max_concurrency"`
	TimeoutDuration time.Duration `mapstructure:"timeout_duration"`
}

type Cache struct {
	DefaultExpiration time.Duration `mapstructure:"default_expiration"`
	CleanupInterval   time.Duration `mapstructure:"cleanup_interval"`
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AddConfigPath(".")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("No config file loaded:", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults() {
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.encoding", "console")

	viper.SetDefault("model.path", "./models")
	viper.SetDefault("model.default_type", "cnn")
	viper.SetDefault("model.default_version", "1.0.0")

	viper.SetDefault("simulation.initial_balance", 10000.0)
	viper.SetDefault("simulation.leverage", 100)
	viper.SetDefault("simulation.risk_factor", 1.0)
	viper.SetDefault("simulation.spread_pips", 2.0)
	viper.SetDefault("simulation.confidence_threshold", 0.6)
	viper.SetDefault("simulation.max_open_positions", 1)
	viper.SetDefault("simulation.take_profit_atr", 2.0)
	viper.SetDefault("simulation.stop_loss_atr", 1.5)

	viper.SetDefault("runner.max_concurrency", 4)
	viper.SetDefault("runner.timeout_duration", 10*time.Minute)

	viper.SetDefault("cache.default_expiration", 5*time.Minute)
	viper.SetDefault("cache.cleanup_interval", 10*time.Minute)
}
