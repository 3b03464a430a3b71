// Package env loads dotenv files into the process environment before the
// configuration is read.
package env

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

const DefaultAppEnv = "dev"

// Load reads <dir>/.env (secrets, never overriding the real environment) and
// then <dir>/.env.<APP_ENV> over it. Missing files are skipped. It returns the
// files that were loaded.
func Load(dir string) ([]string, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = DefaultAppEnv
	}

	var loaded []string

	secrets := filepath.Join(dir, ".env")
	if err := godotenv.Load(secrets); err == nil {
		loaded = append(loaded, secrets)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return loaded, fmt.Errorf("load %s: %w", secrets, err)
	}

	envFile := filepath.Join(dir, ".env."+appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		loaded = append(loaded, envFile)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return loaded, fmt.Errorf("load %s: %w", envFile, err)
	}

	return loaded, nil
}
