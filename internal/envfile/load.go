package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// EnvironmentVar holds the name of the current deployment environment.
const EnvironmentVar = "NODE_ENV"

// DefaultEnvironment is used to pick the environment specific file when
// EnvironmentVar is unset.
const DefaultEnvironment = "development"

// DefaultFiles returns the files LoadDefaults considers, in load order.
// Files loaded earlier take precedence because loading never overwrites a
// variable that is already set.
func DefaultFiles(workDir, configDir string) []string {
	if !filepath.IsAbs(configDir) {
		configDir = filepath.Join(workDir, configDir)
	}

	environment := os.Getenv(EnvironmentVar)
	if environment == "" {
		environment = DefaultEnvironment
	}

	return []string{
		filepath.Join(configDir, ".env"),
		filepath.Join(configDir, ".env."+environment),
		filepath.Join(configDir, ".env.local"),
		filepath.Join(workDir, ".env"),
	}
}

// LoadDefaults loads every default file that exists into the process
// environment. Missing files are skipped silently; files that exist but
// cannot be loaded are logged and skipped. It returns the files loaded.
func LoadDefaults(logger *slog.Logger, workDir, configDir string) []string {
	if logger == nil {
		logger = slog.Default()
	}

	var loaded []string
	for _, path := range DefaultFiles(workDir, configDir) {
		if err := loadFile(path); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			logger.Warn("could not load environment file", "path", path, "error", err)
			continue
		}
		logger.Debug("loaded environment file", "path", path)
		loaded = append(loaded, path)
	}

	return loaded
}

func loadFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", path)
	}
	return godotenv.Load(path)
}
