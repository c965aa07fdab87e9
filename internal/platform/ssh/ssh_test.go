package ssh

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shipway-dev/shipway/internal/util/keygen"
)

func generateTestKey(t *testing.T) *keygen.KeyPair {
	t.Helper()
	keyPair, err := keygen.GenerateRSAKeyPair(2048)
	if err != nil {
		t.Fatalf("failed to generate test key: %v", err)
	}
	return keyPair
}

func TestNewClient_Success(t *testing.T) {
	keyPair := generateTestKey(t)

	cfg := &Config{
		Host:       "203.0.113.7",
		User:       "ubuntu",
		PrivateKey: keyPair.PrivateKey,
	}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if client == nil {
		t.Fatal("expected client, got nil")
	}

	// Defaults applied to the copy, not the caller's struct
	if client.config.Port != defaultPort {
		t.Errorf("expected port %d, got %d", defaultPort, client.config.Port)
	}
	if client.config.DialTimeout != defaultDialTimeout {
		t.Errorf("expected timeout %v, got %v", defaultDialTimeout, client.config.DialTimeout)
	}
	if cfg.Port != 0 {
		t.Errorf("caller config mutated: port %d", cfg.Port)
	}
}

func TestNewClient_Validation(t *testing.T) {
	keyPair := generateTestKey(t)

	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{"nil config", nil, "config cannot be nil"},
		{"missing host", &Config{User: "u", PrivateKey: keyPair.PrivateKey}, "host cannot be empty"},
		{"missing user", &Config{Host: "h", PrivateKey: keyPair.PrivateKey}, "user cannot be empty"},
		{"missing key", &Config{Host: "h", User: "u"}, "private key cannot be empty"},
		{"garbage key", &Config{Host: "h", User: "u", PrivateKey: []byte("not a key")}, "failed to parse private key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(tt.cfg)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestExecute_ConnectionFailure(t *testing.T) {
	keyPair := generateTestKey(t)

	client, err := NewClient(&Config{
		Host:        "127.0.0.1",
		Port:        1, // nothing listens here
		User:        "ubuntu",
		PrivateKey:  keyPair.PrivateKey,
		MaxRetries:  1,
		RetryDelay:  time.Millisecond,
		DialTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err = client.Execute(ctx, "true")
	if err == nil {
		t.Fatal("expected connection failure")
	}
	if !strings.Contains(err.Error(), "failed to establish SSH connection") {
		t.Errorf("unexpected error: %v", err)
	}
}
