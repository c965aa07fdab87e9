package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus(t *testing.T) {
	cmd := Status()

	require.NotNil(t, cmd)
	assert.Equal(t, "status", cmd.Use)
	assert.Equal(t, "Report replica readiness for the deployed application", cmd.Short)
	assert.NotNil(t, cmd.RunE)

	wait := cmd.Flags().Lookup("wait")
	require.NotNil(t, wait, "wait flag should exist")
	assert.Equal(t, "false", wait.DefValue)
}

func TestProvision(t *testing.T) {
	cmd := Provision()

	require.NotNil(t, cmd)
	assert.Equal(t, "provision", cmd.Use)
	assert.Equal(t, "Converge the target infrastructure", cmd.Short)
	assert.NotNil(t, cmd.RunE)
}

func TestInit(t *testing.T) {
	cmd := Init()

	require.NotNil(t, cmd)
	assert.Equal(t, "init", cmd.Use)
	assert.NotNil(t, cmd.RunE)

	output := cmd.Flags().Lookup("output")
	require.NotNil(t, output, "output flag should exist")
	assert.Equal(t, "o", output.Shorthand)
	assert.Equal(t, "shipway.yaml", output.DefValue)
}
