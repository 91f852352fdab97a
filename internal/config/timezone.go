package config

import (
	"os"
	"time"

	"git.home.luguber.info/inful/mdpress/internal/outcome"
)

// CheckTimezone validates the host time configuration used for date
// formatting in generated content. An unset TZ falls back to the system
// default and is always acceptable; a TZ value that cannot be resolved
// against the timezone database fails the build early rather than during
// rendering.
func CheckTimezone() error {
	tz := os.Getenv("TZ")
	if tz == "" {
		return nil
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return outcome.ConfigError("TZ="+tz, err)
	}
	return nil
}
