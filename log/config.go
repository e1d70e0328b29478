/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"fmt"
	"strings"

	"code.cloudfoundry.org/bytefmt"

	"github.com/acronis/go-lrucache/config"
)

const cfgDefaultKeyPrefix = "log"

const (
	cfgKeyLevel              = "level"
	cfgKeyFormat             = "format"
	cfgKeyOutput             = "output"
	cfgKeyNoColor            = "nocolor"
	cfgKeyAddCaller          = "addCaller"
	cfgKeyErrorNoVerbose     = "error.noVerbose"
	cfgKeyErrorVerboseSuffix = "error.verboseSuffix"

	cfgKeyFile                         = "file"
	cfgKeyFilePath                     = "file.path"
	cfgKeyFileMirrorToStdout           = "file.mirrorToStdout"
	cfgKeyFileRotationCompress         = "file.rotation.compress"
	cfgKeyFileRotationMaxSize          = "file.rotation.maxSize"
	cfgKeyFileRotationMaxBackups       = "file.rotation.maxBackups"
	cfgKeyFileRotationMaxAgeDays       = "file.rotation.maxAgeDays"
	cfgKeyFileRotationLocalTimeInNames = "file.rotation.localTimeInNames"
)

// Default and restriction values.
const (
	DefaultFileRotationMaxSizeBytes = 250 * 1024 * 1024
	MinFileRotationMaxSizeBytes     = 1024 * 1024

	DefaultFileRotationMaxBackups = 10
	MinFileRotationMaxBackups     = 1

	defaultErrorVerboseSuffix = "_verbose"
)

// Level defines possible values for log levels.
type Level string

// Logging levels.
const (
	LevelError Level = "error"
	LevelWarn  Level = "warn"
	LevelInfo  Level = "info"
	LevelDebug Level = "debug"
)

// Format defines possible values for log formats.
type Format string

// Logging formats.
const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Output defines possible values for log outputs.
type Output string

// Logging outputs.
const (
	OutputStdout Output = "stdout"
	OutputStderr Output = "stderr"
	OutputFile   Output = "file"
)

// Config is the logger configuration.
// The cache itself logs only at debug level, so "debug" is needed to see hits, misses and evictions.
type Config struct {
	Level   Level            `mapstructure:"level" yaml:"level" json:"level"`
	Format  Format           `mapstructure:"format" yaml:"format" json:"format"`
	Output  Output           `mapstructure:"output" yaml:"output" json:"output"`
	NoColor bool             `mapstructure:"nocolor" yaml:"nocolor" json:"nocolor"`
	File    FileOutputConfig `mapstructure:"file" yaml:"file" json:"file"`

	Error ErrorConfig `mapstructure:"error" yaml:"error" json:"error"`

	// AddCaller adds package/file:line of the logging call to every entry.
	AddCaller bool `mapstructure:"addCaller" yaml:"addCaller" json:"addCaller"`

	keyPrefix string
}

var _ config.Config = (*Config)(nil)
var _ config.KeyPrefixProvider = (*Config)(nil)

// FileOutputConfig is used when Output is "file".
type FileOutputConfig struct {
	// Path may contain {{starttime}} and {{pid}} placeholders.
	Path string `mapstructure:"path" yaml:"path" json:"path"`

	// MirrorToStdout duplicates every entry written to the file to stdout.
	MirrorToStdout bool `mapstructure:"mirrorToStdout" yaml:"mirrorToStdout" json:"mirrorToStdout"`

	Rotation FileRotationConfig `mapstructure:"rotation" yaml:"rotation" json:"rotation"`
}

// FileRotationConfig controls rotation of the log file.
type FileRotationConfig struct {
	Compress         bool              `mapstructure:"compress" yaml:"compress" json:"compress"`
	MaxSize          config.BytesCount `mapstructure:"maxSize" yaml:"maxSize" json:"maxSize"`
	MaxBackups       int               `mapstructure:"maxBackups" yaml:"maxBackups" json:"maxBackups"`
	MaxAgeDays       int               `mapstructure:"maxAgeDays" yaml:"maxAgeDays" json:"maxAgeDays"`
	LocalTimeInNames bool              `mapstructure:"localTimeInNames" yaml:"localTimeInNames" json:"localTimeInNames"`
}

// ErrorConfig controls how error fields are encoded.
type ErrorConfig struct {
	// NoVerbose disables the extra "error<VerboseSuffix>" field with the %+v representation of the error.
	// The field is never added when it would repeat err.Error().
	NoVerbose     bool   `mapstructure:"noVerbose" yaml:"noVerbose" json:"noVerbose"`
	VerboseSuffix string `mapstructure:"verboseSuffix" yaml:"verboseSuffix" json:"verboseSuffix"`
}

// ConfigOption is a type for functional options for the Config.
type ConfigOption func(*configOptions)

type configOptions struct {
	keyPrefix string
}

// WithKeyPrefix sets the key prefix under which config.Loader looks for logger parameters.
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

// NewDefaultConfig creates a new instance of the Config filled with the same values
// that SetProviderDefaults puts into a data provider.
func NewDefaultConfig(options ...ConfigOption) *Config {
	cfg := NewConfig(options...)
	cfg.Level = LevelInfo
	cfg.Format = FormatJSON
	cfg.Output = OutputStdout
	cfg.File.Rotation.MaxSize = DefaultFileRotationMaxSizeBytes
	cfg.File.Rotation.MaxBackups = DefaultFileRotationMaxBackups
	cfg.Error.VerboseSuffix = defaultErrorVerboseSuffix
	return cfg
}

// KeyPrefix implements config.KeyPrefixProvider.
func (c *Config) KeyPrefix() string {
	if c.keyPrefix == "" {
		return cfgDefaultKeyPrefix
	}
	return c.keyPrefix
}

// SetProviderDefaults implements config.Config.
// Every file key gets a default, so environment variables may override any of them.
func (c *Config) SetProviderDefaults(dp config.DataProvider) {
	dp.SetDefault(cfgKeyLevel, string(LevelInfo))
	dp.SetDefault(cfgKeyFormat, string(FormatJSON))
	dp.SetDefault(cfgKeyOutput, string(OutputStdout))
	dp.SetDefault(cfgKeyErrorVerboseSuffix, defaultErrorVerboseSuffix)

	dp.SetDefault(cfgKeyFilePath, "")
	dp.SetDefault(cfgKeyFileMirrorToStdout, false)
	dp.SetDefault(cfgKeyFileRotationCompress, false)
	dp.SetDefault(cfgKeyFileRotationMaxSize, bytefmt.ByteSize(DefaultFileRotationMaxSizeBytes))
	dp.SetDefault(cfgKeyFileRotationMaxBackups, DefaultFileRotationMaxBackups)
	dp.SetDefault(cfgKeyFileRotationMaxAgeDays, 0)
	dp.SetDefault(cfgKeyFileRotationLocalTimeInNames, false)
}

// Set implements config.Config.
func (c *Config) Set(dp config.DataProvider) error {
	level, err := getEnum(dp, cfgKeyLevel, LevelError, LevelWarn, LevelInfo, LevelDebug)
	if err != nil {
		return err
	}
	format, err := getEnum(dp, cfgKeyFormat, FormatJSON, FormatText)
	if err != nil {
		return err
	}
	output, err := getEnum(dp, cfgKeyOutput, OutputStdout, OutputStderr, OutputFile)
	if err != nil {
		return err
	}
	file, err := getFileOutputConfig(dp, output)
	if err != nil {
		return err
	}

	res := Config{Level: level, Format: format, Output: output, File: file, keyPrefix: c.keyPrefix}
	if res.AddCaller, err = dp.GetBool(cfgKeyAddCaller); err != nil {
		return err
	}
	if res.NoColor, err = dp.GetBool(cfgKeyNoColor); err != nil {
		return err
	}
	if res.Error.NoVerbose, err = dp.GetBool(cfgKeyErrorNoVerbose); err != nil {
		return err
	}
	if res.Error.VerboseSuffix, err = dp.GetString(cfgKeyErrorVerboseSuffix); err != nil {
		return err
	}
	*c = res
	return nil
}

// getEnum reads a case-insensitive string value that must be one of allowed.
func getEnum[T ~string](dp config.DataProvider, key string, allowed ...T) (T, error) {
	set := make([]string, len(allowed))
	for i := range allowed {
		set[i] = string(allowed[i])
	}
	val, err := dp.GetStringFromSet(key, set, true)
	if err != nil {
		return "", err
	}
	return T(strings.ToLower(val)), nil
}

func getFileOutputConfig(dp config.DataProvider, output Output) (FileOutputConfig, error) {
	var section struct {
		File FileOutputConfig `mapstructure:"file"`
	}
	if err := dp.Unmarshal(&section, config.DecodeTextUnmarshalers); err != nil {
		return FileOutputConfig{}, dp.WrapKeyErr(cfgKeyFile, err)
	}
	file := section.File

	if file.Path == "" && output == OutputFile {
		return file, dp.WrapKeyErr(cfgKeyFilePath, fmt.Errorf("cannot be empty when %q output is used", OutputFile))
	}
	if file.Rotation.MaxSize < MinFileRotationMaxSizeBytes {
		return file, dp.WrapKeyErr(cfgKeyFileRotationMaxSize,
			fmt.Errorf("should be >= %s", bytefmt.ByteSize(MinFileRotationMaxSizeBytes)))
	}
	if file.Rotation.MaxBackups < MinFileRotationMaxBackups {
		return file, dp.WrapKeyErr(cfgKeyFileRotationMaxBackups, fmt.Errorf("should be >= %d", MinFileRotationMaxBackups))
	}
	if file.Rotation.MaxAgeDays < 0 {
		return file, dp.WrapKeyErr(cfgKeyFileRotationMaxAgeDays, fmt.Errorf("should be >= 0"))
	}
	return file, nil
}
