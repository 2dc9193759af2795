// Package transform builds MCP server launch descriptors from parsed
// environment variables.
package transform

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/pavlenkoa/envproc/internal/config"
	"github.com/pavlenkoa/envproc/internal/mask"
)

// MCPConfig is the launch configuration consumed by MCP clients.
type MCPConfig struct {
	MCPServers map[string]Server `json:"mcpServers" yaml:"mcpServers"`
}

// Server describes how to start one MCP server.
type Server struct {
	Command string            `json:"command" yaml:"command"`
	Args    []string          `json:"args" yaml:"args"`
	Env     map[string]string `json:"env" yaml:"env"`
}

// UnresolvedBindingError occurs when a required binding has no value.
type UnresolvedBindingError struct {
	Integration string
	Key         string
	From        []string
}

// Error implements the error interface.
func (e *UnresolvedBindingError) Error() string {
	return fmt.Sprintf("integration %q: no value for required env %q (tried %v)", e.Integration, e.Key, e.From)
}

// Transform resolves every integration of table against vars.
//
// For each binding the first source variable with a non-empty value wins,
// then the binding default. Optional bindings that resolve to nothing are
// left out of the server environment.
func Transform(table *config.Table, vars map[string]string) (*MCPConfig, error) {
	if table == nil {
		table = config.DefaultTable()
	}

	cfg := &MCPConfig{
		MCPServers: make(map[string]Server, len(table.Integrations)),
	}

	for _, name := range table.Names() {
		integration := table.Integrations[name]

		server := Server{
			Command: integration.Command,
			Args:    append([]string{}, integration.Args...),
			Env:     make(map[string]string, len(integration.Env)),
		}

		for key, binding := range integration.Env {
			value, ok := resolve(binding, vars)
			if !ok {
				if binding.Required {
					return nil, &UnresolvedBindingError{Integration: name, Key: key, From: binding.From}
				}
				continue
			}
			server.Env[key] = value
		}

		cfg.MCPServers[name] = server
	}

	return cfg, nil
}

func resolve(binding config.Binding, vars map[string]string) (string, bool) {
	for _, source := range binding.From {
		if v := vars[source]; v != "" {
			return v, true
		}
	}
	if binding.Default != "" {
		return binding.Default, true
	}
	return "", false
}

// LogValue implements slog.LogValuer so sensitive overrides never reach the log verbatim.
func (c *MCPConfig) LogValue() slog.Value {
	if c == nil {
		return slog.AnyValue(nil)
	}

	names := make([]string, 0, len(c.MCPServers))
	for name := range c.MCPServers {
		names = append(names, name)
	}
	sort.Strings(names)

	attrs := make([]slog.Attr, 0, len(names))
	for _, name := range names {
		server := c.MCPServers[name]
		attrs = append(attrs, slog.Group(name,
			slog.String("command", server.Command),
			slog.Any("args", server.Args),
			slog.Any("env", mask.Map(server.Env)),
		))
	}
	return slog.GroupValue(attrs...)
}

// Masked returns a copy of the configuration with sensitive overrides masked.
func (c *MCPConfig) Masked() *MCPConfig {
	out := &MCPConfig{
		MCPServers: make(map[string]Server, len(c.MCPServers)),
	}
	for name, server := range c.MCPServers {
		out.MCPServers[name] = Server{
			Command: server.Command,
			Args:    append([]string{}, server.Args...),
			Env:     mask.Map(server.Env),
		}
	}
	return out
}
