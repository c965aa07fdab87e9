package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds all configurable timeout values.
// These values can be customized via environment variables.
type Timeouts struct {
	Build             time.Duration // Timeout for the image build and push
	Provision         time.Duration // Timeout for terraform apply
	Session           time.Duration // Timeout for establishing the SSH session
	Rollout           time.Duration // Timeout for the readiness poll after rollout restart
	PollInterval      time.Duration // Interval between readiness polls
	RetryMaxAttempts  int           // Maximum number of retry attempts
	RetryInitialDelay time.Duration // Initial delay between retries
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - SHIPWAY_TIMEOUT_BUILD (default: 15m)
//   - SHIPWAY_TIMEOUT_PROVISION (default: 10m)
//   - SHIPWAY_TIMEOUT_SESSION (default: 1m)
//   - SHIPWAY_TIMEOUT_ROLLOUT (default: 5m)
//   - SHIPWAY_POLL_INTERVAL (default: 5s)
//   - SHIPWAY_RETRY_MAX_ATTEMPTS (default: 5)
//   - SHIPWAY_RETRY_INITIAL_DELAY (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Build:             parseDuration("SHIPWAY_TIMEOUT_BUILD", 15*time.Minute),
		Provision:         parseDuration("SHIPWAY_TIMEOUT_PROVISION", 10*time.Minute),
		Session:           parseDuration("SHIPWAY_TIMEOUT_SESSION", time.Minute),
		Rollout:           parseDuration("SHIPWAY_TIMEOUT_ROLLOUT", 5*time.Minute),
		PollInterval:      parseDuration("SHIPWAY_POLL_INTERVAL", 5*time.Second),
		RetryMaxAttempts:  parseInt("SHIPWAY_RETRY_MAX_ATTEMPTS", 5),
		RetryInitialDelay: parseDuration("SHIPWAY_RETRY_INITIAL_DELAY", time.Second),
	}
}

func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil || n <= 0 {
		return defaultVal
	}

	return n
}
