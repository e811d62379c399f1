// Copyright 2024 Canonical Ltd.
// Licensed under the AGPLv3, see LICENCE file for details.

// Package osenv holds the environment variables consulted for the
// command line defaults.
package osenv

import (
	"os"
)

const (
	// GracePeriodEnvKey holds the default grace period, in the syntax
	// understood by internal/duration.
	GracePeriodEnvKey = "GRACE_PERIOD"

	// AggressiveEnvKey enables aggressive mode by default when set to
	// any non-empty value.
	AggressiveEnvKey = "AGGRESSIVE"

	// DefaultGracePeriod is used when GracePeriodEnvKey is unset: one
	// month.
	DefaultGracePeriod = "720h"
)

// GracePeriod returns the default grace period for this process.
func GracePeriod() string {
	if value := os.Getenv(GracePeriodEnvKey); value != "" {
		return value
	}
	return DefaultGracePeriod
}

// Aggressive reports whether aggressive mode is on by default for this
// process.
func Aggressive() bool {
	return os.Getenv(AggressiveEnvKey) != ""
}
