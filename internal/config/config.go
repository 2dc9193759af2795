package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads a mapping table from path. Files ending in .hcl are parsed as
// HCL, everything else as YAML. vars take priority over the process
// environment wherever a table refers to a variable.
func Load(path string, vars Variables) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading mapping file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return ParseHCL(data, path, vars)
	default:
		return Parse(data, vars)
	}
}

// Parse parses a mapping table from YAML bytes.
func Parse(data []byte, vars Variables) (*Table, error) {
	var table Table
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}

	if err := substituteVariables(&table, vars); err != nil {
		return nil, err
	}

	applyDefaults(&table)

	if err := validate(&table); err != nil {
		return nil, fmt.Errorf("validating mapping: %w", err)
	}

	return &table, nil
}

// Names returns the integration names in sorted order.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.Integrations))
	for name := range t.Integrations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// applyDefaults normalizes nil collections.
func applyDefaults(table *Table) {
	for name, integration := range table.Integrations {
		if integration.Args == nil {
			integration.Args = []string{}
		}
		if integration.Env == nil {
			integration.Env = map[string]Binding{}
		}
		table.Integrations[name] = integration
	}
}

// validate checks the table for errors.
func validate(table *Table) error {
	if len(table.Integrations) == 0 {
		return fmt.Errorf("no integrations defined")
	}

	for _, name := range table.Names() {
		integration := table.Integrations[name]
		if integration.Command == "" {
			return fmt.Errorf("integration %q: command is required", name)
		}

		for key, binding := range integration.Env {
			if key == "" {
				return fmt.Errorf("integration %q: empty env key", name)
			}
			if len(binding.From) == 0 && binding.Default == "" {
				return fmt.Errorf("integration %q env %q: from or default is required", name, key)
			}
		}
	}

	return nil
}
