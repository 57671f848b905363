package config

import (
	"time"

	"github.com/urfave/cli/v3"

	"github.com/memora-app/memora/pkg/utils/remote"
)

// Remote holds CLI flags for backing-store call bounds
type Remote struct {
	timeout time.Duration
	retries uint64
}

// Flags returns CLI flags for remote call configuration
func (r *Remote) Flags() []cli.Flag {
	defaults := remote.DefaultPolicy()
	return []cli.Flag{
		&cli.DurationFlag{
			Name:        "store-timeout",
			Usage:       "Per-call timeout for backing-store operations",
			Value:       defaults.Timeout,
			Sources:     cli.EnvVars("MEMORA_STORE_TIMEOUT"),
			Destination: &r.timeout,
		},
		&cli.Uint64Flag{
			Name:        "store-retries",
			Usage:       "Retry count for idempotent backing-store calls",
			Value:       defaults.MaxRetries,
			Sources:     cli.EnvVars("MEMORA_STORE_RETRIES"),
			Destination: &r.retries,
		},
	}
}

// Policy returns the configured remote call policy
func (r *Remote) Policy() remote.Policy {
	return remote.Policy{
		Timeout:    r.timeout,
		MaxRetries: r.retries,
	}
}
