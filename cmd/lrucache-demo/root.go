/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/acronis/go-lrucache/config"
	"github.com/acronis/go-lrucache/internal/libinfo"
	"github.com/acronis/go-lrucache/log"
	"github.com/acronis/go-lrucache/lrucache"
)

const envVarsPrefix = "lrucache"

const defaultDemoCapacity = 2

const defaultLogFilePath = "cache.log"

// AppConfig is the configuration of the demo application.
type AppConfig struct {
	Cache *lrucache.Config
	Log   *log.Config
}

// NewAppConfig creates a new AppConfig.
func NewAppConfig() *AppConfig {
	return &AppConfig{
		Cache: lrucache.NewConfig(),
		Log:   log.NewConfig(),
	}
}

// SetProviderDefaults sets default configuration values in config.DataProvider.
// The demo writes debug entries of every cache operation to cache.log unless configured otherwise.
func (c *AppConfig) SetProviderDefaults(dp config.DataProvider) {
	config.CallSetProviderDefaultsForFields(c, dp)
	dp.SetDefault("log.level", string(log.LevelDebug))
	dp.SetDefault("log.output", string(log.OutputFile))
	dp.SetDefault("log.file.path", defaultLogFilePath)
}

// Set sets configuration values from config.DataProvider.
func (c *AppConfig) Set(dp config.DataProvider) error {
	return config.CallSetForFields(c, dp)
}

type rootOptions struct {
	configPath string
	capacity   int
	toStdout   bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions
	cmd := &cobra.Command{
		Use:   "lrucache-demo",
		Short: "Run a demo sequence of LRU cache operations",
		Long: `Runs set/get operations against an LRU cache and prints results of reads ("<nil>" for misses).
Configuration is read from an optional YAML file and environment variables with LRUCACHE_ prefix
(e.g. LRUCACHE_CACHE_CAPACITY, LRUCACHE_LOG_LEVEL).
By default debug entries of every cache operation are appended to cache.log, --stdout duplicates them to stdout.`,
		Version:       libinfo.GetLibVersion(),
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadAppConfig(cmd, opts)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return runApp(cmd, cfg)
		},
	}
	cmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to YAML configuration file")
	cmd.Flags().IntVar(&opts.capacity, "capacity", defaultDemoCapacity,
		"cache capacity (overrides configuration file when set explicitly)")
	cmd.Flags().BoolVarP(&opts.toStdout, "stdout", "s", false, "also write logs to stdout")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "logging level (error, warn, info, debug)")
	return cmd
}

func loadAppConfig(cmd *cobra.Command, opts rootOptions) (*AppConfig, error) {
	cfgLoader := config.NewDefaultLoader(envVarsPrefix)
	dp := cfgLoader.DataProvider

	// Without a configuration file the flag's default capacity is used, as the demo sequence relies on it.
	if opts.configPath == "" || cmd.Flags().Changed("capacity") {
		dp.Set("cache.capacity", opts.capacity)
	}
	if opts.toStdout {
		dp.Set("log.file.mirrorToStdout", true)
	}
	if opts.logLevel != "" {
		dp.Set("log.level", opts.logLevel)
	}

	cfg := NewAppConfig()
	if opts.configPath != "" {
		return cfg, cfgLoader.LoadFromFile(opts.configPath, config.DataTypeYAML, cfg)
	}
	return cfg, cfgLoader.Load(cfg)
}

func runApp(cmd *cobra.Command, cfg *AppConfig) error {
	logger, closeLogger := log.NewLogger(cfg.Log)
	defer closeLogger()

	cache, err := lrucache.NewFromConfig[string, int](cfg.Cache, lrucache.Options{
		Logger: logger.With(log.String("cache", "demo")),
	})
	if err != nil {
		logger.Error("failed to create cache", log.Error(err))
		return fmt.Errorf("create cache: %w", err)
	}
	logger.Info("cache created", log.Int("capacity", cache.Cap()))

	runDemo(cmd.OutOrStdout(), cache)

	logger.Info("demo finished", log.Int("entries", cache.Len()), log.Any("keys", cache.Keys()))
	return nil
}
