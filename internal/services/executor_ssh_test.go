package services

import (
	"testing"

	"cutover/internal/api"

	"github.com/stretchr/testify/assert"
)

func TestMapActiveState(t *testing.T) {
	tests := []struct {
		active   string
		expected api.ServiceState
	}{
		{"active", api.StateRunning},
		{"activating", api.StateStarting},
		{"reloading", api.StateStarting},
		{"deactivating", api.StateStopping},
		{"inactive", api.StateStopped},
		{"failed", api.StateFailed},
		{"", api.StateUnknown},
		{"garbage", api.StateUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, mapActiveState(tt.active), "ActiveState %q", tt.active)
	}
}

func TestParseShowOutput(t *testing.T) {
	output := "ActiveState=active\nMainPID=4242\nMemoryCurrent=104857600\nNRestarts=2\n"

	signals := parseShowOutput(output)

	assert.Equal(t, api.StateRunning, signals.State)
	assert.True(t, signals.ProcessPresent)
	assert.Equal(t, uint64(104857600), signals.MemoryBytes)
	assert.Equal(t, uint32(2), signals.Restarts)
}

func TestParseShowOutputNotSetValues(t *testing.T) {
	output := "ActiveState=inactive\nMainPID=0\nMemoryCurrent=[not set]\nNRestarts=0\n"

	signals := parseShowOutput(output)

	assert.Equal(t, api.StateStopped, signals.State)
	assert.False(t, signals.ProcessPresent)
	assert.Zero(t, signals.MemoryBytes)
	assert.Zero(t, signals.Restarts)
}

func TestIsLocalHost(t *testing.T) {
	tests := []struct {
		host     string
		hostname string
		expected bool
	}{
		{"", "corebank01", true},
		{"localhost", "corebank01", true},
		{"127.0.0.1", "corebank01", true},
		{"corebank01", "corebank01", true},
		{"COREBANK01", "corebank01", true},
		{"corebank01.bank.internal", "corebank01", true},
		{"corebank01", "corebank01.bank.internal", true},
		{"corebank02", "corebank01", false},
		{"corebank02", "", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, isLocalHost(tt.host, tt.hostname), "host %q vs %q", tt.host, tt.hostname)
	}
}
