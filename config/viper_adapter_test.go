/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package config

import (
	"bytes"
	"testing"

	"github.com/mitchellh/mapstructure"
	"github.com/stretchr/testify/require"
)

const testAppConfigYAML = `
cache:
  capacity: 2
  name: users
log:
  level: Debug
  addCaller: true
  file:
    rotation:
      maxSize: 100M
      maxBackups: 3
`

func newTestViperAdapter(t *testing.T) *ViperAdapter {
	t.Helper()
	va := NewViperAdapter()
	require.NoError(t, va.SetFromReader(bytes.NewBufferString(testAppConfigYAML), DataTypeYAML))
	return va
}

func TestViperAdapter_Getters(t *testing.T) {
	va := newTestViperAdapter(t)

	name, err := va.GetString("cache.name")
	require.NoError(t, err)
	require.Equal(t, "users", name)

	addCaller, err := va.GetBool("log.addCaller")
	require.NoError(t, err)
	require.True(t, addCaller)

	level, err := va.GetStringFromSet("log.level", []string{"debug", "info"}, true)
	require.NoError(t, err)
	require.Equal(t, "Debug", level)

	_, err = va.GetStringFromSet("log.level", []string{"debug", "info"}, false)
	require.EqualError(t, err, `log.level: unknown value "Debug", should be one of [debug info]`)

	va.Set("log.addCaller", "sometimes")
	_, err = va.GetBool("log.addCaller")
	require.ErrorContains(t, err, "log.addCaller")
}

func TestViperAdapter_Unmarshal(t *testing.T) {
	type cacheSection struct {
		Capacity int    `mapstructure:"capacity"`
		Name     string `mapstructure:"name"`
	}

	va := newTestViperAdapter(t)

	var all struct {
		Cache cacheSection `mapstructure:"cache"`
	}
	require.NoError(t, va.Unmarshal(&all))
	require.Equal(t, cacheSection{Capacity: 2, Name: "users"}, all.Cache)

	var strict struct {
		Cache struct {
			Capacity int `mapstructure:"capacity"`
		} `mapstructure:"cache"`
	}
	err := va.Unmarshal(&strict, func(dc *mapstructure.DecoderConfig) {
		dc.ErrorUnused = true
	})
	require.ErrorContains(t, err, "name")
}

func TestKeyPrefixedDataProvider_Unmarshal(t *testing.T) {
	t.Setenv("LRUCACHE_TEST_LOG_FILE_ROTATION_MAXBACKUPS", "7")
	va := newTestViperAdapter(t)
	va.UseEnvVars("lrucache_test")

	type rotationSection struct {
		MaxSize    BytesCount `mapstructure:"maxSize"`
		MaxBackups int        `mapstructure:"maxBackups"`
	}
	var file struct {
		Path     string          `mapstructure:"path"`
		Rotation rotationSection `mapstructure:"rotation"`
	}
	dp := NewKeyPrefixedDataProvider(va, "log.file")
	dp.SetDefault("path", "cache.log")
	require.NoError(t, dp.Unmarshal(&file, DecodeTextUnmarshalers))
	require.Equal(t, "cache.log", file.Path)
	require.Equal(t, rotationSection{MaxSize: BytesCount(100 * 1024 * 1024), MaxBackups: 7}, file.Rotation)

	// Nested prefixed providers resolve the full path.
	var rotation rotationSection
	nested := NewKeyPrefixedDataProvider(NewKeyPrefixedDataProvider(va, "log"), "file.rotation")
	require.NoError(t, nested.Unmarshal(&rotation, DecodeTextUnmarshalers))
	require.Equal(t, 7, rotation.MaxBackups)

	// Missing subtree leaves the value untouched.
	missing := rotationSection{MaxBackups: 1}
	require.NoError(t, NewKeyPrefixedDataProvider(va, "unknown.section").Unmarshal(&missing))
	require.Equal(t, rotationSection{MaxBackups: 1}, missing)
}

func TestKeyPrefixedDataProvider(t *testing.T) {
	var dp DataProvider = NewKeyPrefixedDataProvider(newTestViperAdapter(t), "log.file")

	dp.SetDefault("path", "cache.log")
	path, err := dp.GetString("path")
	require.NoError(t, err)
	require.Equal(t, "cache.log", path)

	dp.Set("mirrorToStdout", "yes")
	mirror, err := dp.GetBool("mirrorToStdout")
	require.ErrorContains(t, err, "log.file.mirrorToStdout")
	require.False(t, mirror)
	require.EqualError(t, dp.WrapKeyErr("rotation.maxBackups", errTest), "log.file.rotation.maxBackups: test error")
}
