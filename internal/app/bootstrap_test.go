package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestNewApplicationWiresComponents(t *testing.T) {
	dir := writeConfig(t, `
defaults:
  actionTimeout: 30s
  pollInterval: 1s
  drainTimeout: 2m
environments:
  production:
    services:
      - name: core-ledger
        domain: core-banking
        unit: core-ledger.service
`)

	application, err := NewApplication(NewConfig(false, false, true, dir))
	require.NoError(t, err)
	defer application.Close()

	assert.NotNil(t, application.Monitor)
	assert.NotNil(t, application.Controller)
	assert.NotNil(t, application.Orchestrator)
	assert.Contains(t, application.Config.Environments, "production")

	// Default store lands next to the configuration.
	_, err = os.Stat(filepath.Join(dir, "audit.db"))
	assert.NoError(t, err)
}

func TestNewApplicationMissingConfigUsesDefaults(t *testing.T) {
	dir := t.TempDir()

	application, err := NewApplication(NewConfig(false, false, true, dir))
	require.NoError(t, err)
	defer application.Close()

	assert.Empty(t, application.Config.Environments)
}

func TestNewApplicationRejectsInvalidConfig(t *testing.T) {
	dir := writeConfig(t, `
environments:
  production:
    services:
      - name: core-ledger
        domain: core-banking
        unit: core-ledger.service
        dependsOn: [core-ledger]
`)

	_, err := NewApplication(NewConfig(false, false, true, dir))
	assert.Error(t, err)
}
