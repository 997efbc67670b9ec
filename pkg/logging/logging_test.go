package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LogLevel(42), "UNKNOWN"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.level.String())
	}
}

func TestInitTextOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf, false)

	Info("TestSubsystem", "hello %s", "world")

	out := buf.String()
	assert.Contains(t, out, "hello world")
	assert.Contains(t, out, "subsystem=TestSubsystem")
}

func TestInitJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf, true)

	Info("TestSubsystem", "structured entry")

	out := buf.String()
	assert.Contains(t, out, `"subsystem":"TestSubsystem"`)
	assert.Contains(t, out, `"msg":"structured entry"`)
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelWarn, &buf, false)

	Debug("Test", "should be filtered")
	Info("Test", "should be filtered too")
	Warn("Test", "should appear")

	out := buf.String()
	assert.NotContains(t, out, "filtered")
	assert.Contains(t, out, "should appear")
}

func TestErrorIncludesErrAttribute(t *testing.T) {
	var buf bytes.Buffer
	Init(LevelInfo, &buf, false)

	Error("Test", assert.AnError, "operation failed")

	out := buf.String()
	assert.Contains(t, out, "operation failed")
	assert.True(t, strings.Contains(out, "error="), "expected error attribute in output")
}
