package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// WstatConfig holds the reporter configuration
type WstatConfig struct {
	Monitor struct {
		File           string `mapstructure:"file"`             // monitoring database file path
		LockTimeoutSec int    `mapstructure:"lock_timeout_sec"` // bounded wait when the engine holds the write lock
	} `mapstructure:"monitor"`

	Report struct {
		StatusLimit int    `mapstructure:"status_limit"` // recent-activity line cap
		PlotDir     string `mapstructure:"plot_dir"`     // where runtime histograms are written
	} `mapstructure:"report"`

	LogLevel string `mapstructure:"log_level"`
}

// LoadConfig reads the configuration from a file or environment variables
func LoadConfig(configPaths ...string) (*WstatConfig, error) {
	// can specify config path from environment
	if path, exists := os.LookupEnv("WSTAT_CONFIG_PATH"); exists {
		configPaths = append(configPaths, path)
	}
	for _, path := range configPaths {
		fi, err := os.Stat(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, err
		}
		mode := fi.Mode()
		switch {
		case mode.IsRegular():
			v := newViper()
			v.SetConfigFile(path)
			config, err := readConfig(v, path)
			if err != nil {
				continue
			}
			return config, nil

		case mode.IsDir():
			v := newViper()
			v.AddConfigPath(path)
			v.SetConfigName("config")
			v.SetConfigType("yaml")
			config, err := readConfig(v, path)
			if err != nil {
				continue
			}
			return config, nil
		}
	}

	// finally read from current working directory; a reporting CLI is
	// normally run with no config file at all, so a missing file falls
	// back to the defaults rather than failing
	v := newViper()
	v.AddConfigPath(".")
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	cwd, _ := os.Getwd()

	config, err := readConfig(v, cwd)
	if err != nil {
		config = &WstatConfig{}
		if err := v.Unmarshal(config); err != nil {
			return nil, err
		}
	}
	return config, nil
}

// newViper sets default values for configuration
func newViper() *viper.Viper {
	v := viper.New()

	// Monitoring store defaults
	v.SetDefault("monitor.file", "./monitoring.db")
	v.SetDefault("monitor.lock_timeout_sec", 30)

	// Report defaults
	v.SetDefault("report.status_limit", 20)
	v.SetDefault("report.plot_dir", ".")

	// Log level default
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("WSTAT")                            // Prefix for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_")) // Replace dots with underscores in env vars
	v.AutomaticEnv()                                   // Read environment variables

	return v
}

func readConfig(v *viper.Viper, path string) (*WstatConfig, error) {
	var config WstatConfig

	if err := v.ReadInConfig(); err != nil {
		log.Debug().
			Str("path", path).
			Msg("Could not read config file")
		return nil, err
	}
	if err := v.Unmarshal(&config); err != nil {
		log.Warn().
			Str("path", path).
			Msg("Could not unmarshall config")
		return nil, err
	}

	return &config, nil
}

// LockTimeout returns the configured lock wait bound.
func (c *WstatConfig) LockTimeout() time.Duration {
	return time.Duration(c.Monitor.LockTimeoutSec) * time.Second
}

// Level parses the configured log level, falling back to info on junk.
func (c *WstatConfig) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		log.Warn().Str("log_level", c.LogLevel).Msg("Unrecognised log level, using info")
		return zerolog.InfoLevel
	}
	return level
}
