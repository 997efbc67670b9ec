package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCutoffNow(t *testing.T) {
	before := time.Now()
	cutoff, err := parseCutoff("now")
	require.NoError(t, err)
	assert.WithinDuration(t, before, cutoff, time.Second)

	cutoff, err = parseCutoff("")
	require.NoError(t, err)
	assert.WithinDuration(t, before, cutoff, time.Second)
}

func TestParseCutoffRFC3339(t *testing.T) {
	cutoff, err := parseCutoff("2026-08-25T17:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 17, cutoff.UTC().Hour())
	assert.Equal(t, 30, cutoff.UTC().Minute())
}

func TestParseCutoffInvalid(t *testing.T) {
	_, err := parseCutoff("yesterday")
	assert.ErrorContains(t, err, "invalid --cutoff")
}
