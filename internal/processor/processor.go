// Package processor exposes the process environment through a masking
// accessor and turns a .env file into an MCP server configuration.
package processor

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/pavlenkoa/envproc/internal/config"
	"github.com/pavlenkoa/envproc/internal/envfile"
	"github.com/pavlenkoa/envproc/internal/fetcher"
	"github.com/pavlenkoa/envproc/internal/mask"
	"github.com/pavlenkoa/envproc/internal/observer"
	"github.com/pavlenkoa/envproc/internal/transform"
)

// DebugVar enables LogConfig when set to "true".
const DebugVar = "DEBUG"

// DefaultRequired lists the variables that must be present unless
// WithRequired says otherwise.
var DefaultRequired = []string{envfile.EnvironmentVar, DebugVar}

// Processor holds an immutable snapshot of the process environment taken
// after the default environment files were loaded.
type Processor struct {
	workDir        string
	configDir      string
	envFile        string
	table          *config.Table
	observer       observer.Observer
	logger         *slog.Logger
	registry       *fetcher.Registry
	required       []string
	skipValidation bool

	snapshot map[string]string
	meta     *metaState
}

// Option configures a Processor.
type Option func(*Processor)

// WithWorkDir sets the directory relative paths are resolved against.
func WithWorkDir(dir string) Option {
	return func(p *Processor) {
		p.workDir = dir
	}
}

// WithConfigDir sets the directory holding the layered default env files.
func WithConfigDir(dir string) Option {
	return func(p *Processor) {
		p.configDir = dir
	}
}

// WithEnvFile sets the file ProcessStandardEnv reads. It may be a path or
// a URI understood by the registry.
func WithEnvFile(ref string) Option {
	return func(p *Processor) {
		p.envFile = ref
	}
}

// WithTable sets the integration mapping table.
func WithTable(table *config.Table) Option {
	return func(p *Processor) {
		p.table = table
	}
}

// WithObserver sets the state observer.
func WithObserver(o observer.Observer) Option {
	return func(p *Processor) {
		p.observer = o
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		p.logger = logger
	}
}

// WithRegistry sets the registry used to fetch the env file.
func WithRegistry(r *fetcher.Registry) Option {
	return func(p *Processor) {
		p.registry = r
	}
}

// WithRequired replaces the required variable set.
func WithRequired(names ...string) Option {
	return func(p *Processor) {
		p.required = names
	}
}

// WithSkipValidation disables the required variable check in New.
func WithSkipValidation(skip bool) Option {
	return func(p *Processor) {
		p.skipValidation = skip
	}
}

// New loads the default environment files, captures the environment and
// validates the required variables.
func New(ctx context.Context, opts ...Option) (*Processor, error) {
	p := &Processor{
		workDir:   ".",
		configDir: "config",
		envFile:   ".env",
		required:  DefaultRequired,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.observer == nil {
		p.observer = observer.NewLogObserver(p.logger)
	}
	if p.registry == nil {
		p.registry = fetcher.NewRegistry(fetcher.NewLocalFetcher(p.workDir))
	}
	if p.table == nil {
		p.table = config.DefaultTable()
	}

	loaded := envfile.LoadDefaults(p.logger, p.workDir, p.configDir)
	p.logger.Debug("default environment files", "loaded", loaded)

	p.snapshot = environ()

	if !p.skipValidation {
		if err := p.ValidateRequiredVariables(); err != nil {
			return nil, err
		}
	}

	p.meta = newMetaState()
	p.observer.Observe(ctx, observer.LayerEnvironment, p.meta.snapshot())

	return p, nil
}

// environ copies the process environment into a map.
func environ() map[string]string {
	vars := make(map[string]string)
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		if key == "" {
			continue
		}
		vars[key] = value
	}
	return vars
}

// Get returns the value of key, masked when the key is sensitive.
// Unset and empty variables are reported as *MissingVariableError.
func (p *Processor) Get(key string) (string, error) {
	value, ok := p.snapshot[key]
	if !ok || value == "" {
		return "", &MissingVariableError{Name: key}
	}
	return mask.Value(key, value), nil
}

// GetDefault is like Get but returns def instead of failing.
func (p *Processor) GetDefault(key, def string) string {
	value, err := p.Get(key)
	if err != nil {
		return mask.Value(key, def)
	}
	return value
}

// GetAllConfig returns every variable, masked where sensitive.
func (p *Processor) GetAllConfig() map[string]string {
	return mask.Map(p.snapshot)
}

// Fingerprint returns a digest of the raw value of key, so values can be
// compared across environments without printing them.
func (p *Processor) Fingerprint(key string) (string, error) {
	value, ok := p.snapshot[key]
	if !ok || value == "" {
		return "", &MissingVariableError{Name: key}
	}
	return mask.Fingerprint(value), nil
}

// IsEnvironment reports whether NODE_ENV equals name.
func (p *Processor) IsEnvironment(name string) bool {
	value, ok := p.snapshot[envfile.EnvironmentVar]
	return ok && value == name
}

// LogConfig logs the masked configuration when DEBUG is "true".
func (p *Processor) LogConfig(ctx context.Context) {
	if p.snapshot[DebugVar] != "true" {
		return
	}
	p.logger.InfoContext(ctx, "current configuration", "config", p.GetAllConfig())
}

// ValidateRequiredVariables fails with the first required variable that is
// unset or empty.
func (p *Processor) ValidateRequiredVariables() error {
	for _, name := range p.required {
		if p.snapshot[name] == "" {
			return &MissingVariableError{Name: name}
		}
	}
	return nil
}

// MetaState returns a copy of the diagnostic state.
func (p *Processor) MetaState() map[string]any {
	return p.meta.snapshot()
}

// ProcessStandardEnv reads and parses the env file and builds the MCP
// configuration from it. Every failure is returned as *ProcessingError.
func (p *Processor) ProcessStandardEnv(ctx context.Context) (*transform.MCPConfig, error) {
	uri, err := fetcher.ResolveURI(p.workDir, p.envFile)
	if err != nil {
		return nil, p.fail(ctx, KindFileRead, err)
	}

	data, err := p.registry.Fetch(ctx, uri)
	if err != nil {
		return nil, p.fail(ctx, KindFileRead, err)
	}

	vars, err := envfile.Parse(string(data))
	if err != nil {
		return nil, p.fail(ctx, KindMalformedContent, err)
	}
	p.observer.Observe(ctx, observer.LayerParsing, map[string]any{"keys": len(vars)})

	p.observer.Observe(ctx, observer.LayerIntegration, p.table.Names())

	cfg, err := transform.Transform(p.table, vars)
	if err != nil {
		return nil, p.fail(ctx, KindTransformation, err)
	}
	p.observer.Observe(ctx, observer.LayerTransformation, cfg)

	return cfg, nil
}

func (p *Processor) fail(ctx context.Context, kind ErrorKind, err error) error {
	p.meta.set(MetaLastError, err)
	p.observer.Observe(ctx, observer.LayerMetaAnalysis, map[string]any{"error": err})
	p.logger.DebugContext(ctx, "environment processing failed", "kind", string(kind), "file", p.envFile, "error", err)
	return &ProcessingError{Kind: kind, Cause: err}
}
