package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDestroy(t *testing.T) {
	cmd := Destroy()

	require.NotNil(t, cmd)
	assert.Equal(t, "destroy", cmd.Use)
	assert.Equal(t, "Tear down the provisioned infrastructure", cmd.Short)
	assert.NotNil(t, cmd.RunE)
}

func TestDestroy_Flags(t *testing.T) {
	cmd := Destroy()

	config := cmd.Flags().Lookup("config")
	require.NotNil(t, config, "config flag should exist")
	assert.Equal(t, "c", config.Shorthand)

	force := cmd.Flags().Lookup("force")
	require.NotNil(t, force, "force flag should exist")
	assert.Equal(t, "false", force.DefValue)
}
