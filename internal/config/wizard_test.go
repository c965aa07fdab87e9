package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWizardResultToConfig(t *testing.T) {
	t.Parallel()

	result := &WizardResult{
		AppName:        "my-app",
		Environment:    "staging",
		BuildContext:   "./app",
		Port:           5000,
		RegistryHost:   "registry.example.com",
		Repository:     "my-app",
		InfraWorkdir:   "./infra",
		Region:         "eu-central-1",
		RemoteUser:     "ubuntu",
		PrivateKeyPath: "~/.ssh/id_rsa",
		Archive:        true,
		ArchiveBucket:  "shipway-runs",
	}

	cfg := result.ToConfig()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "my-app", cfg.AppName)
	assert.Equal(t, 5000, cfg.Build.Port)
	assert.Equal(t, "registry.example.com", cfg.Registry.Host)
	assert.Equal(t, "eu-central-1", cfg.Archive.Region)

	// Defaults made explicit in the generated config.
	assert.Equal(t, "Dockerfile", cfg.Build.Dockerfile)
	assert.Equal(t, "default", cfg.Manifests.Namespace)
	assert.Equal(t, DefaultNodePort, cfg.Manifests.NodePort)
	assert.Equal(t, 22, cfg.Remote.Port)
	assert.Equal(t, ".shipway", cfg.StateDir)
}

func TestWizardResultToConfig_NoArchive(t *testing.T) {
	t.Parallel()

	result := &WizardResult{
		AppName:        "my-app",
		Environment:    "staging",
		BuildContext:   "./app",
		Port:           5000,
		RegistryHost:   "registry.example.com",
		Repository:     "my-app",
		InfraWorkdir:   "./infra",
		RemoteUser:     "ubuntu",
		PrivateKeyPath: "~/.ssh/id_rsa",
	}

	cfg := result.ToConfig()
	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.Archive.Enabled)
}

func TestValidateAppName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "my-app", false},
		{"valid with digits", "app2", false},
		{"empty", "", true},
		{"leading hyphen", "-app", true},
		{"trailing hyphen", "app-", true},
		{"underscore", "my_app", true},
		{"too long", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := validateAppName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePort(t *testing.T) {
	t.Parallel()

	assert.NoError(t, validatePort("5000"))
	assert.Error(t, validatePort("0"))
	assert.Error(t, validatePort("70000"))
	assert.Error(t, validatePort("not a port"))
}

func TestSaveRoundTrip(t *testing.T) {
	t.Parallel()

	result := &WizardResult{
		AppName:        "my-app",
		Environment:    "staging",
		BuildContext:   "./app",
		Port:           5000,
		RegistryHost:   "registry.example.com",
		Repository:     "my-app",
		InfraWorkdir:   "./infra",
		RemoteUser:     "ubuntu",
		PrivateKeyPath: "~/.ssh/id_rsa",
	}

	path := t.TempDir() + "/shipway.yaml"
	require.NoError(t, Save(result.ToConfig(), path))

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "my-app", loaded.AppName)
	assert.Equal(t, DefaultNodePort, loaded.Manifests.NodePort)
}
