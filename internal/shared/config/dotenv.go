package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"resume-service/internal/shared/telemetry"
)

// loadEnvFiles loads the given env files if they exist. Variables already set in the
// process environment win over file values.
func loadEnvFiles(paths ...string) {
	for _, path := range paths {
		if err := godotenv.Load(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			telemetry.Warn("config.env_file_skipped", map[string]any{"path": path, "error": err})
		}
	}
}
