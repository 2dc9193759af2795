package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestDefaultTable(t *testing.T) {
	table := DefaultTable()

	github, ok := table.Integrations[GitHubServerName]
	if !ok {
		t.Fatal("missing github integration")
	}
	if github.Command != "npx" {
		t.Errorf("expected command npx, got %s", github.Command)
	}
	wantArgs := []string{"-y", "@modelcontextprotocol/server-github"}
	if !reflect.DeepEqual(github.Args, wantArgs) {
		t.Errorf("expected args %v, got %v", wantArgs, github.Args)
	}
	binding := github.Env["GITHUB_PERSONAL_ACCESS_TOKEN"]
	wantFrom := []string{"GITHUB_TOKEN", "GITHUB_PERSONAL_ACCESS_TOKEN"}
	if !reflect.DeepEqual(binding.From, wantFrom) {
		t.Errorf("expected from %v, got %v", wantFrom, binding.From)
	}

	if err := validate(table); err != nil {
		t.Errorf("default table must be valid: %v", err)
	}
}

func TestParse_ValidYAML(t *testing.T) {
	yaml := `
integrations:
  github:
    command: npx
    args: ["-y", "@modelcontextprotocol/server-github"]
    env:
      GITHUB_PERSONAL_ACCESS_TOKEN:
        from: [GITHUB_TOKEN, GITHUB_PERSONAL_ACCESS_TOKEN]
        required: true
  filesystem:
    command: npx
    args: ["-y", "@modelcontextprotocol/server-filesystem", "{root}"]
`

	table, err := Parse([]byte(yaml), Variables{"root": "/srv/data"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := table.Names(); !reflect.DeepEqual(got, []string{"filesystem", "github"}) {
		t.Errorf("unexpected names: %v", got)
	}

	fs := table.Integrations["filesystem"]
	if fs.Args[2] != "/srv/data" {
		t.Errorf("expected substituted root, got %s", fs.Args[2])
	}
	if fs.Env == nil {
		t.Error("expected env to default to an empty map")
	}

	if !table.Integrations["github"].Env["GITHUB_PERSONAL_ACCESS_TOKEN"].Required {
		t.Error("expected required binding")
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{
			name:    "invalid yaml",
			yaml:    "integrations: [",
			wantErr: "parsing yaml",
		},
		{
			name:    "no integrations",
			yaml:    "integrations: {}",
			wantErr: "no integrations defined",
		},
		{
			name: "missing command",
			yaml: `
integrations:
  github:
    args: ["-y"]
`,
			wantErr: "command is required",
		},
		{
			name: "binding without source",
			yaml: `
integrations:
  github:
    command: npx
    env:
      TOKEN: {}
`,
			wantErr: "from or default is required",
		},
		{
			name: "unresolved variable",
			yaml: `
integrations:
  fs:
    command: npx
    args: ["{root}"]
`,
			wantErr: "unresolved variables: {root}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml), nil)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestParseHCL_ValidConfig(t *testing.T) {
	hcl := `
integration "github" {
  command = "npx"
  args    = ["-y", "@modelcontextprotocol/server-github"]

  env "GITHUB_PERSONAL_ACCESS_TOKEN" {
    from = ["GITHUB_TOKEN", "GITHUB_PERSONAL_ACCESS_TOKEN"]
  }

  env "GITHUB_HOST" {
    default  = env("HOST_OVERRIDE")
    required = true
  }
}
`

	table, err := ParseHCL([]byte(hcl), "test.hcl", Variables{"HOST_OVERRIDE": "github.example.com"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	github, ok := table.Integrations["github"]
	if !ok {
		t.Fatal("missing github integration")
	}
	if github.Command != "npx" {
		t.Errorf("expected command npx, got %s", github.Command)
	}
	if len(github.Args) != 2 || github.Args[1] != "@modelcontextprotocol/server-github" {
		t.Errorf("unexpected args: %v", github.Args)
	}

	token := github.Env["GITHUB_PERSONAL_ACCESS_TOKEN"]
	if !reflect.DeepEqual(token.From, []string{"GITHUB_TOKEN", "GITHUB_PERSONAL_ACCESS_TOKEN"}) {
		t.Errorf("unexpected from: %v", token.From)
	}

	host := github.Env["GITHUB_HOST"]
	if host.Default != "github.example.com" {
		t.Errorf("expected default from var, got %q", host.Default)
	}
	if !host.Required {
		t.Error("expected required binding")
	}
}

func TestParseHCL_EnvFunctionFromProcess(t *testing.T) {
	t.Setenv("ENVPROC_TEST_COMMAND", "uvx")

	hcl := `
integration "fetch" {
  command = env("ENVPROC_TEST_COMMAND")
  args    = ["mcp-server-fetch"]
}
`

	table, err := ParseHCL([]byte(hcl), "test.hcl", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Integrations["fetch"].Command != "uvx" {
		t.Errorf("expected uvx, got %s", table.Integrations["fetch"].Command)
	}
}

func TestParseHCL_Errors(t *testing.T) {
	tests := []struct {
		name string
		hcl  string
	}{
		{
			name: "syntax error",
			hcl:  `integration "x" {`,
		},
		{
			name: "missing command",
			hcl:  `integration "x" { args = [] }`,
		},
		{
			name: "args not a list",
			hcl: `
integration "x" {
  command = "npx"
  args    = { a = 1 }
}
`,
		},
		{
			name: "unset env variable",
			hcl:  `integration "x" { command = env("ENVPROC_DEFINITELY_UNSET") }`,
		},
		{
			name: "duplicate integration",
			hcl: `
integration "x" { command = "a" }
integration "x" { command = "b" }
`,
		},
		{
			name: "unknown attribute",
			hcl: `
integration "x" {
  command = "a"
  image   = "b"
}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseHCL([]byte(tt.hcl), "test.hcl", nil); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_ByExtension(t *testing.T) {
	dir := t.TempDir()

	hclPath := filepath.Join(dir, "mapping.hcl")
	if err := os.WriteFile(hclPath, []byte(`integration "a" { command = "x" }`), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	yamlPath := filepath.Join(dir, "mapping.yaml")
	if err := os.WriteFile(yamlPath, []byte("integrations:\n  b:\n    command: y\n"), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	table, err := Load(hclPath, nil)
	if err != nil {
		t.Fatalf("loading hcl: %v", err)
	}
	if table.Integrations["a"].Command != "x" {
		t.Errorf("unexpected hcl table: %+v", table)
	}

	table, err = Load(yamlPath, nil)
	if err != nil {
		t.Fatalf("loading yaml: %v", err)
	}
	if table.Integrations["b"].Command != "y" {
		t.Errorf("unexpected yaml table: %+v", table)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}
