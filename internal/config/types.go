package config

// Table is the declarative description of every integration the
// transformation produces a launch descriptor for.
type Table struct {
	// Integrations are keyed by server name, e.g. "github"
	Integrations map[string]Integration `yaml:"integrations"`
}

// Integration describes how one MCP server is launched.
type Integration struct {
	// Command is the executable to run
	Command string `yaml:"command"`

	// Args are passed to Command unchanged
	Args []string `yaml:"args"`

	// Env maps the server's environment variable names to their sources
	Env map[string]Binding `yaml:"env"`
}

// Binding resolves one environment override of an integration.
type Binding struct {
	// From lists source variables in priority order; the first non-empty wins
	From []string `yaml:"from"`

	// Default is used when no source variable has a value
	Default string `yaml:"default"`

	// Required fails the transformation when nothing resolves
	Required bool `yaml:"required"`
}

// GitHubServerName is the server name of the built-in integration.
const GitHubServerName = "github"

// DefaultTable returns the built-in table: a single GitHub MCP server whose
// access token comes from GITHUB_TOKEN, falling back to
// GITHUB_PERSONAL_ACCESS_TOKEN.
func DefaultTable() *Table {
	return &Table{
		Integrations: map[string]Integration{
			GitHubServerName: {
				Command: "npx",
				Args: []string{
					"-y",
					"@modelcontextprotocol/server-github",
				},
				Env: map[string]Binding{
					"GITHUB_PERSONAL_ACCESS_TOKEN": {
						From: []string{"GITHUB_TOKEN", "GITHUB_PERSONAL_ACCESS_TOKEN"},
					},
				},
			},
		},
	}
}
