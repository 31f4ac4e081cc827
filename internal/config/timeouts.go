package config

import (
	"os"
	"time"
)

// Timeouts holds the polling intervals and deadlines for instance waits.
// These values can be customized via environment variables.
type Timeouts struct {
	// ReadyTimeout bounds the wait for the guest agent. Zero blocks forever,
	// which is the default behavior.
	ReadyTimeout time.Duration

	// BootTimeout bounds the wait for the init system. Zero blocks forever.
	BootTimeout time.Duration

	// AgentInterval is the poll interval for agent checks.
	AgentInterval time.Duration

	// BootInterval is the poll interval for the booted check.
	BootInterval time.Duration
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - INCANT_TIMEOUT_READY (default: 0, unbounded)
//   - INCANT_TIMEOUT_BOOT (default: 0, unbounded)
//   - INCANT_INTERVAL_AGENT (default: 300ms)
//   - INCANT_INTERVAL_BOOT (default: 1s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ReadyTimeout:  parseDuration("INCANT_TIMEOUT_READY", 0),
		BootTimeout:   parseDuration("INCANT_TIMEOUT_BOOT", 0),
		AgentInterval: parseDuration("INCANT_INTERVAL_AGENT", 300*time.Millisecond),
		BootInterval:  parseDuration("INCANT_INTERVAL_BOOT", time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
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
