// Package envfile reads .env style KEY=VALUE content and loads the default
// environment files into the process environment.
package envfile

import (
	"fmt"
	"strings"
)

// ParseError reports a line that cannot be turned into a KEY=VALUE pair.
type ParseError struct {
	Line int
	Msg  string
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// Parse turns .env content into a map.
//
// Blank lines and lines starting with # are skipped. The first = separates
// the key from the value, so the value may itself contain =. Key and value
// are trimmed and one matching pair of surrounding quotes is removed from
// the value. A line without = defines its key with an empty value.
// Later assignments to the same key win.
func Parse(content string) (map[string]string, error) {
	vars := make(map[string]string)

	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		key, value, _ := strings.Cut(trimmed, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, &ParseError{Line: i + 1, Msg: "missing key before '='"}
		}

		vars[key] = unquote(strings.TrimSpace(value))
	}

	return vars, nil
}

// unquote strips one pair of matching single or double quotes.
func unquote(value string) string {
	if len(value) < 2 {
		return value
	}
	first, last := value[0], value[len(value)-1]
	if first == last && (first == '"' || first == '\'') {
		return value[1 : len(value)-1]
	}
	return value
}
