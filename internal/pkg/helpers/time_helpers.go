package helpers

import (
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// ParseDuration parses a duration string, returns default duration on error.
// A bare integer is read as seconds, so cookie ages like "86400" keep working.
func ParseDuration(durationStr string, defaultDuration time.Duration) time.Duration {
	if durationStr == "" {
		return defaultDuration
	}
	if seconds, err := strconv.ParseInt(durationStr, 10, 64); err == nil {
		return time.Duration(seconds) * time.Second
	}

	duration, err := time.ParseDuration(durationStr)
	if err != nil {
		// Global logger: this runs before the configured logger may exist.
		log.Warn().Err(err).Str("durationStr", durationStr).Dur("defaultDuration", defaultDuration).Msg("Failed to parse duration string, using default")
		return defaultDuration
	}
	return duration
}
