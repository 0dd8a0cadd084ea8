package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultCollision = "fail"
	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

var defaultFileDateTypes = []string{"created", "modified"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		Filters: Filters{
			FileDateTypes: append([]string(nil), defaultFileDateTypes...),
		},
		Moves: Moves{
			Collision:    defaultCollision,
			VerifyCopies: true,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultStateDir() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "archivist")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "~/.local/state/archivist"
	}
	return filepath.Join(home, ".local", "state", "archivist")
}
