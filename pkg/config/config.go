// Package config provides a reusable loader for the bridge's configuration
// files and environment variables. It is versioned so that applications
// can depend on a stable API contract.
//
// Version: v0.1.0
package config

import (
	"fmt"

	"github.com/spf13/viper"

	"solana-base-bridge/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config represents the unified configuration for a bridge deployment. It
// mirrors the structure of the YAML files under cmd/config.
type Config struct {
	Guardian string `mapstructure:"guardian" json:"guardian" yaml:"guardian"`

	Oracle struct {
		TrustedAddress string   `mapstructure:"trusted_address" json:"trusted_address" yaml:"trusted_address"`
		SignerAddrs    []string `mapstructure:"signer_addresses" json:"signer_addresses" yaml:"signer_addresses"`
		Threshold      int      `mapstructure:"threshold" json:"threshold" yaml:"threshold"`
	} `mapstructure:"oracle" json:"oracle" yaml:"oracle"`

	Eip1559 struct {
		Target                uint64 `mapstructure:"target" json:"target" yaml:"target"`
		Denominator           uint64 `mapstructure:"denominator" json:"denominator" yaml:"denominator"`
		WindowDurationSeconds uint64 `mapstructure:"window_duration_seconds" json:"window_duration_seconds" yaml:"window_duration_seconds"`
		MinimumBaseFee        uint64 `mapstructure:"minimum_base_fee" json:"minimum_base_fee" yaml:"minimum_base_fee"`
	} `mapstructure:"eip1559" json:"eip1559" yaml:"eip1559"`

	Gas struct {
		MaxGasLimitPerMessage uint64 `mapstructure:"max_gas_limit_per_message" json:"max_gas_limit_per_message" yaml:"max_gas_limit_per_message"`
	} `mapstructure:"gas" json:"gas" yaml:"gas"`

	GasCost struct {
		GasCostScaler   uint64 `mapstructure:"gas_cost_scaler" json:"gas_cost_scaler" yaml:"gas_cost_scaler"`
		GasCostScalerDp uint64 `mapstructure:"gas_cost_scaler_dp" json:"gas_cost_scaler_dp" yaml:"gas_cost_scaler_dp"`
		GasFeeReceiver  string `mapstructure:"gas_fee_receiver" json:"gas_fee_receiver" yaml:"gas_fee_receiver"`
	} `mapstructure:"gas_cost" json:"gas_cost" yaml:"gas_cost"`

	Protocol struct {
		BlockIntervalRequirement uint64 `mapstructure:"block_interval_requirement" json:"block_interval_requirement" yaml:"block_interval_requirement"`
	} `mapstructure:"protocol" json:"protocol" yaml:"protocol"`

	Limits struct {
		MaxCallBufferSize uint64 `mapstructure:"max_call_buffer_size" json:"max_call_buffer_size" yaml:"max_call_buffer_size"`
	} `mapstructure:"limits" json:"limits" yaml:"limits"`

	RelayerAPI struct {
		ListenAddr string `mapstructure:"listen_addr" json:"listen_addr" yaml:"listen_addr"`
	} `mapstructure:"relayer_api" json:"relayer_api" yaml:"relayer_api"`

	Logging struct {
		Level string `mapstructure:"level" json:"level" yaml:"level"`
		File  string `mapstructure:"file" json:"file" yaml:"file"`
	} `mapstructure:"logging" json:"logging" yaml:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

// Load reads configuration files and merges any environment specific
// overrides. The resulting configuration is stored in AppConfig and
// returned.
//
// The function uses the provided environment name to merge additional
// config files. If env is empty, only the default configuration is
// loaded. Environment variables prefixed BRIDGE_ override file values
// (e.g. BRIDGE_GUARDIAN).
func Load(env string) (*Config, error) {
	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		return nil, utils.Wrap(err, "load config")
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
		}
	}

	viper.SetEnvPrefix("BRIDGE")
	viper.AutomaticEnv() // picks up from .env

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the BRIDGE_ENV environment
// variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("BRIDGE_ENV", ""))
}
