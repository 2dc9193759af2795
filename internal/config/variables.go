package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Variables holds CLI --var values that override the process environment.
type Variables map[string]string

// ParseVariables turns KEY=VALUE pairs into Variables.
func ParseVariables(pairs []string) (Variables, error) {
	vars := make(Variables, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid variable %q: expected KEY=VALUE", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

// variablePattern matches {variable} patterns.
var variablePattern = regexp.MustCompile(`\{([a-zA-Z_][a-zA-Z0-9_]*)\}`)

// substituteVariables replaces {var} patterns in commands and arguments.
func substituteVariables(table *Table, vars Variables) error {
	for name, integration := range table.Integrations {
		integration.Command = substituteString(integration.Command, vars)

		args := make([]string, len(integration.Args))
		for i, arg := range integration.Args {
			args[i] = substituteString(arg, vars)
		}
		if integration.Args != nil {
			integration.Args = args
		}

		table.Integrations[name] = integration
	}

	return checkUnresolvedVariables(table)
}

// substituteString replaces all {var} patterns in s with values from vars.
func substituteString(s string, vars Variables) string {
	if s == "" || len(vars) == 0 {
		return s
	}

	return variablePattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := match[1 : len(match)-1]
		if value, ok := vars[varName]; ok {
			return value
		}
		// Left in place, reported by checkUnresolvedVariables
		return match
	})
}

// checkUnresolvedVariables returns an error if any {var} patterns remain.
func checkUnresolvedVariables(table *Table) error {
	seen := make(map[string]bool)
	for _, integration := range table.Integrations {
		for _, s := range append([]string{integration.Command}, integration.Args...) {
			for _, match := range variablePattern.FindAllString(s, -1) {
				seen[match] = true
			}
		}
	}

	if len(seen) == 0 {
		return nil
	}

	unique := make([]string, 0, len(seen))
	for v := range seen {
		unique = append(unique, v)
	}
	sort.Strings(unique)
	return fmt.Errorf("unresolved variables: %s", strings.Join(unique, ", "))
}

// Substitute replaces {var} patterns in a string using the provided variables.
func Substitute(s string, vars Variables) string {
	return substituteString(s, vars)
}
