// Package sysutil holds small process helpers shared by the entry points:
// log level selection, signal handling and the CLI token file.
package sysutil

import (
	"strings"

	"github.com/rs/zerolog"
)

// SetLogLevel sets zerolog's global level from a name such as "debug" or
// "warn" and returns the level applied. Blank or unknown names mean info;
// "warning" is accepted for warn.
func SetLogLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		name = "warn"
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || name == "" || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	return lvl
}

// FirstNonEmpty returns the first value that is not blank, or "".
func FirstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
