package util

import (
	"bytes"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("warn", NewConsoleOutput(&buf, FormatText))

	logger.Debug("not shown")
	logger.Info("not shown either")
	logger.Warn("warned")
	logger.Error("failed")

	output := buf.String()
	assert.NotContains(t, output, "not shown")
	assert.Contains(t, output, "[WARN] warned")
	assert.Contains(t, output, "[ERROR] failed")
}

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("debug", NewConsoleOutput(&buf, FormatText))

	logger.Info("segment inserted", Field{Key: "id", Value: 7}, Field{Key: "task", Value: "backend"})

	output := buf.String()
	assert.Contains(t, output, "segment inserted")
	assert.Contains(t, output, "id=7")
	assert.Contains(t, output, "task=backend")
}

func TestLoggerJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", NewConsoleOutput(&buf, FormatJSON))

	logger.Infof("loaded %d segments", 42)

	line := strings.TrimSpace(buf.String())
	var entry LogEntry
	require.NoError(t, sonic.Unmarshal([]byte(line), &entry))
	assert.Equal(t, "INFO", entry.Level)
	assert.Equal(t, "loaded 42 segments", entry.Message)
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, parseLogLevel("debug"))
	assert.Equal(t, LevelWarn, parseLogLevel("WARNING"))
	assert.Equal(t, LevelError, parseLogLevel("error"))
	// Unknown strings default to info
	assert.Equal(t, LevelInfo, parseLogLevel("verbose"))
}
