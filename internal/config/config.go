// Package config loads dsstorekit's runtime configuration via Viper,
// following the same defaults/env/file precedence the rest of this
// corpus uses for device and scan configuration.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config holds the tunables for scanning directories and parsing stores.
type Config struct {
	// ReportTimestampFormat is the Go time layout used in report filenames.
	ReportTimestampFormat string `mapstructure:"report_timestamp_format"`

	// CaseSensitiveScan is loaded but not read by the scanner: *.ds_store*
	// matching is always case-insensitive.
	CaseSensitiveScan bool `mapstructure:"case_sensitive_scan"`

	// MaxSlackScanBytes is loaded but not applied: the slack scanner always
	// scans a leaf block's whole unused tail.
	MaxSlackScanBytes int `mapstructure:"max_slack_scan_bytes"`

	// ScanWorkers bounds how many files are parsed concurrently by the CLI.
	ScanWorkers int `mapstructure:"scan_workers"`
}

// Load reads configuration using Viper, applying defaults, then an optional
// YAML config file, then environment variables under the DSSTOREKIT_ prefix.
func Load() (*Config, error) {
	viper.SetConfigName("dsstorekit")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AddConfigPath("$HOME/.dsstorekit")
	viper.AddConfigPath("/etc/dsstorekit")

	viper.SetDefault("report_timestamp_format", "20060102-150405")
	viper.SetDefault("case_sensitive_scan", false)
	viper.SetDefault("max_slack_scan_bytes", 0)
	viper.SetDefault("scan_workers", 4)

	viper.SetEnvPrefix("DSSTOREKIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars still apply.
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
