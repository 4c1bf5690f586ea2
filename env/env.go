// Package env loads a .env file into the process environment ahead of
// config.Load, the same two-step bootstrap every command in the teacher
// repo runs: optional .env first, then YAML config that references the
// variables it set.
package env

import (
	"os"
	"strings"
)

// Load reads a .env file from the current working directory and sets
// each KEY=VALUE pair as an environment variable. A missing file is not
// an error — in production the variables it would have set normally
// come from the deployment environment instead, so ReadFile failing
// silently (the discarded error) is the deliberately permissive
// behavior the teacher's internal/env.LoadEnv has.
func Load() {
	data, _ := os.ReadFile(".env")
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if parts := strings.SplitN(line, "=", 2); len(parts) == 2 {
			os.Setenv(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		}
	}
}

// LoadFile is Load against an explicit path, for callers (such as tests)
// that don't want the current-directory default.
func LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if parts := strings.SplitN(line, "=", 2); len(parts) == 2 {
			os.Setenv(strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]))
		}
	}
	return nil
}
