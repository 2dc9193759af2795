package command

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pavlenkoa/envproc/internal/config"
	"github.com/pavlenkoa/envproc/internal/fetcher"
	"github.com/pavlenkoa/envproc/internal/logging"
	"github.com/pavlenkoa/envproc/internal/processor"
	"github.com/pavlenkoa/envproc/internal/settings"
	"github.com/pavlenkoa/envproc/internal/vault"
)

// Exit codes
const (
	ExitSuccess         = 0
	ExitConfigError     = 1
	ExitProcessingError = 2
)

var (
	// Global flags
	workDir        string
	configDir      string
	envFile        string
	mappingFile    string
	varFlags       []string
	skipValidation bool
	verbose        bool

	// Resolved at startup
	runtimeSettings *settings.Settings
	logger          *slog.Logger
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "envproc",
	Short: "Environment processor",
	Long: `envproc loads layered .env files, prints environment variables with
sensitive values masked, and turns a .env file into an MCP server
configuration (mcpServers) for MCP clients.

The .env file may live on disk, in S3 (s3://bucket/key) or in a Vault KV
secret (vault://mount/path).`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := settings.Load()
		if err != nil {
			return err
		}
		runtimeSettings = s

		level := logging.ParseLevel(s.LogLevel)
		if verbose {
			level = slog.LevelDebug
		}
		logger = logging.New(os.Stderr, level, s.LogFormat)
		return nil
	},
}

// Execute runs the root command
func Execute() {
	ctx := context.Background()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, processor.ErrProcessingFailed):
		return ExitProcessingError
	default:
		return ExitConfigError
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&workDir, "work-dir", "w", ".", "directory relative paths are resolved against")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "directory with layered .env files (or set ENVPROC_CONFIG_DIR)")
	rootCmd.PersistentFlags().StringVarP(&envFile, "env-file", "f", "", "env file to process: path, s3:// or vault:// URI (or set ENVPROC_ENV_FILE)")
	rootCmd.PersistentFlags().StringVarP(&mappingFile, "mapping", "m", "", "integration mapping file, .yaml or .hcl (or set ENVPROC_MAPPING)")
	rootCmd.PersistentFlags().StringArrayVar(&varFlags, "var", nil, "mapping variable KEY=VALUE (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&skipValidation, "skip-validation", false, "do not require NODE_ENV and DEBUG")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// getLogger returns the configured logger
func getLogger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// getSettings returns the runtime settings, falling back to defaults.
func getSettings() *settings.Settings {
	if runtimeSettings == nil {
		return &settings.Settings{ConfigDir: "config", EnvFile: ".env"}
	}
	return runtimeSettings
}

// processorOptions assembles processor options from flags and settings.
// Flags win over settings.
func processorOptions(ctx context.Context) ([]processor.Option, error) {
	s := getSettings()
	log := getLogger()

	dir := firstNonEmpty(configDir, s.ConfigDir)
	ref := firstNonEmpty(envFile, s.EnvFile)

	table, err := loadTable(firstNonEmpty(mappingFile, s.Mapping))
	if err != nil {
		return nil, err
	}

	registry, err := setupFetchers(ctx, ref)
	if err != nil {
		return nil, err
	}

	return []processor.Option{
		processor.WithWorkDir(workDir),
		processor.WithConfigDir(dir),
		processor.WithEnvFile(ref),
		processor.WithTable(table),
		processor.WithRegistry(registry),
		processor.WithLogger(log),
		processor.WithSkipValidation(skipValidation),
	}, nil
}

// newProcessor creates a processor from the command line.
func newProcessor(ctx context.Context) (*processor.Processor, error) {
	opts, err := processorOptions(ctx)
	if err != nil {
		return nil, err
	}
	return processor.New(ctx, opts...)
}

// loadTable reads the mapping file, or returns the built-in table when
// path is empty.
func loadTable(path string) (*config.Table, error) {
	if path == "" {
		return config.DefaultTable(), nil
	}

	vars, err := config.ParseVariables(varFlags)
	if err != nil {
		return nil, err
	}

	getLogger().Debug("loading mapping", "path", path)

	table, err := config.Load(path, vars)
	if err != nil {
		return nil, fmt.Errorf("loading mapping: %w", err)
	}
	return table, nil
}

// setupFetchers builds the registry for the env file reference. The Vault
// fetcher is only created when ref points at Vault, since it logs in.
func setupFetchers(ctx context.Context, ref string) (*fetcher.Registry, error) {
	registry := fetcher.NewRegistry()

	// Local file fetcher
	registry.Register(fetcher.NewLocalFetcher(workDir))

	// S3 fetcher (optional - only if we might need it)
	s3Fetcher, err := fetcher.NewS3Fetcher(ctx)
	if err != nil {
		getLogger().Debug("S3 fetcher not available", "error", err)
	} else {
		registry.Register(s3Fetcher)
	}

	if strings.HasPrefix(ref, "vault://") {
		client, err := vault.NewClient(ctx, vault.ConfigFromEnv())
		if err != nil {
			return nil, fmt.Errorf("connecting to vault: %w", err)
		}
		getLogger().Debug("connected to vault", "address", client.Address())
		registry.Register(fetcher.NewVaultFetcher(client))
	}

	return registry, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
