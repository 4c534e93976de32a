package env

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// LoadDotEnv loads variables from a .env file into the process environment.
// ENV_PATH takes precedence over defaultPath. A missing default file is
// skipped, a missing ENV_PATH file is an error.
func LoadDotEnv(defaultPath string) error {
	envPath, explicit := os.LookupEnv("ENV_PATH")
	if !explicit || envPath == "" {
		envPath = defaultPath
		explicit = false
	}

	err := godotenv.Load(envPath)
	switch {
	case err == nil:
		slog.Debug("Loaded .env", "path", envPath)
		return nil
	case !explicit && errors.Is(err, fs.ErrNotExist):
		slog.Debug("Skipping .env ...", "path", envPath)
		return nil
	default:
		return fmt.Errorf("load %s: %w", envPath, err)
	}
}
