package state

import (
	"time"

	"mpress/theme"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	return &LocalEnv{
		start: time.Now(),
		Theme: theme.Lookup(""),
		Trim:  theme.LookupTrim(""),
	}
}
