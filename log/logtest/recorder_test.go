/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package logtest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-lrucache/log"
)

func TestRecorder(t *testing.T) {
	logRecorder := NewRecorder()
	logRecorder.Warn("cache full, entry evicted", log.Int("capacity", 2), log.String("key", "a"))
	logRecorder.Info("cache created")
	logRecorder.With(log.String("cache", "users")).Debug("cache miss")
	logRecorder.WithLevel(log.LevelInfo).Debug("filtered out")
	logRecorder.Infof("capacity is %d", 2)

	require.Len(t, logRecorder.Entries(), 4)

	_, found := logRecorder.FindEntry("filtered out")
	require.False(t, found)

	logEntry, found := logRecorder.FindEntry("cache full, entry evicted")
	require.True(t, found)
	require.Equal(t, log.LevelWarn, logEntry.Level)

	logFieldCapacity, found := logEntry.FindField("capacity")
	require.True(t, found)
	require.Equal(t, 2, int(logFieldCapacity.Int))
	logFieldKey, found := logEntry.FindField("key")
	require.True(t, found)
	require.Equal(t, "a", string(logFieldKey.Bytes))
	_, found = logEntry.FindField("value")
	require.False(t, found)

	missEntry, found := logRecorder.FindEntry("cache miss")
	require.True(t, found)
	require.Equal(t, log.LevelDebug, missEntry.Level)
	_, found = missEntry.FindField("cache")
	require.True(t, found)

	_, found = logRecorder.FindEntry("capacity is 2")
	require.True(t, found)

	infoEntries := logRecorder.FindAllEntriesByFilter(func(entry RecordedEntry) bool {
		return entry.Level == log.LevelInfo
	})
	require.Len(t, infoEntries, 2)

	logRecorder.Reset()
	require.Empty(t, logRecorder.Entries())
}
