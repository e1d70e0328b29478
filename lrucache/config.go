/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package lrucache

import (
	"fmt"

	"github.com/acronis/go-lrucache/config"
)

const cfgDefaultKeyPrefix = "cache"

const cfgKeyCapacity = "capacity"

// DefaultCapacity is the capacity used when it's not set in the configuration.
const DefaultCapacity = 42

// Config represents a set of configuration parameters for the cache.
type Config struct {
	Capacity int `mapstructure:"capacity" yaml:"capacity" json:"capacity"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// ConfigOption is a type for functional options for the Config.
type ConfigOption func(*configOptions)

type configOptions struct {
	keyPrefix string
}

// WithKeyPrefix returns a ConfigOption that sets a key prefix for parsing configuration parameters.
func WithKeyPrefix(keyPrefix string) ConfigOption {
	return func(o *configOptions) {
		o.keyPrefix = keyPrefix
	}
}

// NewConfig creates a new instance of the Config.
func NewConfig(options ...ConfigOption) *Config {
	opts := configOptions{keyPrefix: cfgDefaultKeyPrefix}
	for _, opt := range options {
		opt(&opts)
	}
	return &Config{keyPrefix: opts.keyPrefix}
}

// NewDefaultConfig creates a new instance of the Config with default values.
func NewDefaultConfig(options ...ConfigOption) *Config {
	cfg := NewConfig(options...)
	cfg.Capacity = DefaultCapacity
	return cfg
}

// KeyPrefix returns a key prefix with which all configuration parameters should be presented.
// Implements config.KeyPrefixProvider interface.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults sets default configuration values for the cache in config.DataProvider.
// Implements config.Config interface.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyCapacity, DefaultCapacity)
}

// Set sets cache configuration values from config.DataProvider.
// Implements config.Config interface.
func (c *Config) Set(dp config.DataProvider) error {
	parsed := *c
	if err := dp.Unmarshal(&parsed); err != nil {
		return dp.WrapKeyErr(cfgKeyCapacity, err)
	}
	if parsed.Capacity <= 0 {
		return dp.WrapKeyErr(cfgKeyCapacity, fmt.Errorf("should be > 0"))
	}
	c.Capacity = parsed.Capacity
	return nil
}

// NewFromConfig creates a new LRUCache with the capacity taken from the configuration.
func NewFromConfig[K comparable, V any](cfg *Config, opts Options) (*LRUCache[K, V], error) {
	return NewWithOpts[K, V](cfg.Capacity, opts)
}
