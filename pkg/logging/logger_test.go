/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: logger_test.go
Description: Tests for the logging system. Covers configuration validation,
logger construction with file output, and the harness-specific formatter
prefixes and value rendering.
*/

package logging

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig(dir string) *LoggerConfig {
	return &LoggerConfig{
		Level:     LogLevelInfo,
		Format:    LogFormatText,
		OutputDir: dir,
		MaxFiles:  5,
		MaxSize:   1024 * 1024,
		Timestamp: true,
	}
}

func TestLoggerConfigValidate(t *testing.T) {
	base := validConfig("./logs")
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(c *LoggerConfig)
	}{
		{"empty output dir", func(c *LoggerConfig) { c.OutputDir = "" }},
		{"zero max files", func(c *LoggerConfig) { c.MaxFiles = 0 }},
		{"negative max size", func(c *LoggerConfig) { c.MaxSize = -1 }},
		{"unknown format", func(c *LoggerConfig) { c.Format = "xml" }},
		{"unknown level", func(c *LoggerConfig) { c.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig("./logs")
			tt.mutate(c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestNewLoggerCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(validConfig(dir))
	require.NoError(t, err)
	defer logger.Close()

	logger.LogEstimate("start", 42.5, nil)

	matches, err := filepath.Glob(filepath.Join(dir, "akaylee-harness_*.log"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)
	assert.NotNil(t, logger.GetLogger())
}

func TestHarnessFormatterPrefixes(t *testing.T) {
	formatter := &HarnessFormatter{}

	tests := []struct {
		message string
		prefix  string
	}{
		{"Target invoked", "INVOKE"},
		{"Target failure", "FAILURE"},
		{"Distinct-output estimate", "ESTIMATE"},
		{"Statistics update", "STATS"},
		{"Fuzzing progress", "STATS"},
		{"Verification started", "VERIFY"},
		{"Session created", "SESSION"},
		{"something else", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.prefix, formatter.getHarnessPrefix(tt.message), tt.message)
	}
}

func TestHarnessFormatterFormat(t *testing.T) {
	formatter := &HarnessFormatter{}

	entry := &logrus.Entry{
		Logger:  logrus.New(),
		Time:    time.Now(),
		Level:   logrus.InfoLevel,
		Message: "Distinct-output estimate",
		Data: logrus.Fields{
			"estimate": 123.456,
		},
	}

	out, err := formatter.Format(entry)
	require.NoError(t, err)
	line := string(out)
	assert.Contains(t, line, "[ESTIMATE]")
	assert.Contains(t, line, "estimate=123.46")
	assert.Contains(t, line, "INFO")
}

func TestLogManagerRotatesOversizedFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "akaylee-harness_2026-01-01_00-00-00.log")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0644))

	manager := NewLogManager(dir, 10, 1024, false)
	require.NoError(t, manager.RotateLogs())

	// Oversized file was renamed aside
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	rotated, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	assert.Len(t, rotated, 1)
}

func TestLogManagerCleanupRetainsNewest(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "akaylee-harness_"+string(rune('a'+i))+".log")
		require.NoError(t, os.WriteFile(name, []byte("log"), 0644))
		now := time.Now().Add(time.Duration(i) * time.Minute)
		require.NoError(t, os.Chtimes(name, now, now))
	}

	manager := NewLogManager(dir, 2, 1024, false)
	require.NoError(t, manager.CleanupOldLogs())

	remaining, err := filepath.Glob(filepath.Join(dir, "akaylee-harness_*.log"))
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestHarnessFormatterValueRendering(t *testing.T) {
	formatter := &HarnessFormatter{}

	assert.Equal(t, "1.5s", formatter.formatHarnessValue("duration", 1500*time.Millisecond))
	assert.Equal(t, "12.34/sec", formatter.formatHarnessValue("rate", 12.336))
	assert.Equal(t, "abcd1234...", formatter.formatHarnessValue("session_id", "abcd1234-0000-1111"))
}
