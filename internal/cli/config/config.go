// Package config loads the optional .statemap.yaml project configuration.
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"

	"github.com/olafglad/react-state-map-sub000/statemap"
)

// Config is the CLI-facing configuration. Only DrillingThreshold reaches the
// analysis core; the file patterns are consumed entirely by the collector.
type Config struct {
	DrillingThreshold int      `mapstructure:"drillingThreshold"`
	Include           []string `mapstructure:"include"`
	Exclude           []string `mapstructure:"exclude"`
	Format            string   `mapstructure:"format"`
}

// Load reads .statemap.yaml from dir, falling back to defaults when the file
// is absent.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".statemap")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetDefault("drillingThreshold", statemap.DefaultDrillingThreshold)
	v.SetDefault("format", "json")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &config, nil
}
