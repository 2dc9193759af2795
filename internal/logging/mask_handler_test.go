package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return New(buf, slog.LevelDebug, "json")
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestMaskHandler_MasksSensitiveString(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf).Info("hello", "GITHUB_TOKEN", "ghp_abcdef", "NODE_ENV", "production")

	m := decode(t, &buf)
	assert.Equal(t, "gh****ef", m["GITHUB_TOKEN"])
	assert.Equal(t, "production", m["NODE_ENV"])
}

func TestMaskHandler_NonStringSensitiveValue(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf).Info("hello", "api_key", 12345678)

	m := decode(t, &buf)
	assert.Equal(t, "****", m["api_key"])
}

func TestMaskHandler_SensitiveStringMap(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf).Info("hello", "credentials", map[string]string{
		"DB_PASSWORD": "hunter2-hunter2",
		"PORT":        "5432",
	})

	m := decode(t, &buf)
	creds, ok := m["credentials"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "hu****r2", creds["DB_PASSWORD"])
	assert.Equal(t, "5432", creds["PORT"])
}

func TestMaskHandler_Groups(t *testing.T) {
	var buf bytes.Buffer
	newTestLogger(&buf).Info("hello", slog.Group("vault", slog.String("token", "s.abcdefgh"), slog.String("addr", "http://vault")))

	m := decode(t, &buf)
	group, ok := m["vault"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "s.****gh", group["token"])
	assert.Equal(t, "http://vault", group["addr"])
}

func TestMaskHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf).With("SESSION_SECRET", "abcdefgh").WithGroup("req")
	logger.Info("hello", "password", "p4ssw0rd!")

	m := decode(t, &buf)
	assert.Equal(t, "ab****gh", m["SESSION_SECRET"])
	req, ok := m["req"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "p4****d!", req["password"])
}

func TestMaskHandler_LevelRespected(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, slog.LevelWarn, "text").Info("hidden")
	assert.Empty(t, buf.String())
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("info"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warn"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
