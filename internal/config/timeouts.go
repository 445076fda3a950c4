package config

import "time"

// Environment keys for the three command timeout tiers. Short covers quick
// probes (getprop, version checks), medium covers mode switches and scans,
// long covers flash/dump transfers.
const (
	EnvTimeoutShort  = "RESCUE_TIMEOUT_SHORT"
	EnvTimeoutMedium = "RESCUE_TIMEOUT_MEDIUM"
	EnvTimeoutLong   = "RESCUE_TIMEOUT_LONG"
)

const (
	defaultTimeoutShort  = 10 * time.Second
	defaultTimeoutMedium = 60 * time.Second
	defaultTimeoutLong   = 10 * time.Minute
)

// TimeoutShort returns the timeout tier for quick probe commands.
func TimeoutShort() time.Duration {
	return Duration(EnvTimeoutShort, defaultTimeoutShort)
}

// TimeoutMedium returns the timeout tier for mode switches and scans.
func TimeoutMedium() time.Duration {
	return Duration(EnvTimeoutMedium, defaultTimeoutMedium)
}

// TimeoutLong returns the timeout tier for partition transfers.
func TimeoutLong() time.Duration {
	return Duration(EnvTimeoutLong, defaultTimeoutLong)
}
