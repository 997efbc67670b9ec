package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCommand(t *testing.T) {
	SetVersion("1.2.3")
	defer SetVersion("")

	cmd := newVersionCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "cutover version 1.2.3")
}

func TestSetAndGetVersion(t *testing.T) {
	SetVersion("9.9.9")
	defer SetVersion("")

	assert.Equal(t, "9.9.9", GetVersion())
}

func TestRootRegistersSubcommands(t *testing.T) {
	expected := []string{"sod", "eod", "service", "status", "operations", "validate", "health", "version", "self-update"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}

	for _, name := range expected {
		assert.True(t, registered[name], "command %s not registered", name)
	}
}
