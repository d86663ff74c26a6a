package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds configuration values loaded from flags, env, or config file.
type Config struct {
	Snapshot     string
	Pool         string
	Amount       uint64
	TokenA       bool
	ExactOut     bool
	SlippageBps  uint16
	TransferFeeA uint16
	TransferFeeB uint16
	PriceStep    float64
	MaxEntries   int
	Invert       bool
	LogLevel     string
}

// Load merges config file, environment variables, and flags into Config.
func Load(cfgFile string, flags *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FUSIONQUOTE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetDefault("slippage-bps", uint16(100))
	v.SetDefault("price-step", 0.01)
	v.SetDefault("max-entries", 100)
	v.SetDefault("log-level", "info")

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return Config{}, fmt.Errorf("bind flags: %w", err)
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	cfg := Config{
		Snapshot:     v.GetString("snapshot"),
		Pool:         v.GetString("pool"),
		Amount:       v.GetUint64("amount"),
		TokenA:       v.GetBool("token-a"),
		ExactOut:     v.GetBool("exact-out"),
		SlippageBps:  v.GetUint16("slippage-bps"),
		TransferFeeA: v.GetUint16("transfer-fee-a"),
		TransferFeeB: v.GetUint16("transfer-fee-b"),
		PriceStep:    v.GetFloat64("price-step"),
		MaxEntries:   v.GetInt("max-entries"),
		Invert:       v.GetBool("invert"),
		LogLevel:     v.GetString("log-level"),
	}

	return cfg, nil
}
