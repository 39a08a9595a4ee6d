package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// ScanConfig holds configuration for the scan command, merged from flags,
// environment, and an optional config file.
type ScanConfig struct {
	RPCURL       string
	Pool         string
	MinTick      int32
	MaxTick      int32
	BatchSize    int
	BatchDelay   time.Duration
	RateLimit    int
	MaxRetries   int
	RetryBackoff time.Duration
	WindowRadius int32
	QuoteToken0  bool
	Out          string
	PgDSN        string
	LogLevel     string
}

// LoadScan merges config file, environment variables, and flags into ScanConfig.
func LoadScan(cfgFile string, flags *pflag.FlagSet) (ScanConfig, error) {
	v := newViper()

	v.SetDefault("batch-size", 50)
	v.SetDefault("batch-delay", 200*time.Millisecond)
	v.SetDefault("rate-limit", 20)
	v.SetDefault("max-retries", 5)
	v.SetDefault("retry-backoff", 500*time.Millisecond)
	v.SetDefault("window-radius", 0)
	v.SetDefault("out", "./data/curve.jsonl")
	v.SetDefault("log-level", "info")

	if err := bind(v, cfgFile, flags); err != nil {
		return ScanConfig{}, err
	}

	cfg := ScanConfig{
		RPCURL:       v.GetString("rpc"),
		Pool:         v.GetString("pool"),
		MinTick:      v.GetInt32("min-tick"),
		MaxTick:      v.GetInt32("max-tick"),
		BatchSize:    v.GetInt("batch-size"),
		BatchDelay:   v.GetDuration("batch-delay"),
		RateLimit:    v.GetInt("rate-limit"),
		MaxRetries:   v.GetInt("max-retries"),
		RetryBackoff: v.GetDuration("retry-backoff"),
		WindowRadius: v.GetInt32("window-radius"),
		QuoteToken0:  v.GetBool("quote-token0"),
		Out:          v.GetString("out"),
		PgDSN:        v.GetString("pg-dsn"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}

// PriceConfig holds configuration for the price command.
type PriceConfig struct {
	Tick         int32
	TickSet      bool
	Price        float64
	PriceSet     bool
	SqrtPriceX96 string
	Decimals0    uint8
	Decimals1    uint8
	QuoteToken0  bool
	LogLevel     string
}

// LoadPrice merges environment variables and flags into PriceConfig.
func LoadPrice(cfgFile string, flags *pflag.FlagSet) (PriceConfig, error) {
	v := newViper()

	v.SetDefault("decimals0", 18)
	v.SetDefault("decimals1", 18)
	v.SetDefault("log-level", "info")

	if err := bind(v, cfgFile, flags); err != nil {
		return PriceConfig{}, err
	}

	cfg := PriceConfig{
		Tick:         v.GetInt32("tick"),
		Price:        v.GetFloat64("price"),
		SqrtPriceX96: v.GetString("sqrt-price-x96"),
		Decimals0:    uint8(v.GetUint("decimals0")),
		Decimals1:    uint8(v.GetUint("decimals1")),
		QuoteToken0:  v.GetBool("quote-token0"),
		LogLevel:     v.GetString("log-level"),
	}
	if flags != nil {
		cfg.TickSet = flags.Changed("tick")
		cfg.PriceSet = flags.Changed("price")
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("TICKSCOPE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

func bind(v *viper.Viper, cfgFile string, flags *pflag.FlagSet) error {
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}
