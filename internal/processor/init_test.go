package processor

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavlenkoa/envproc/internal/observer"
)

func TestInitializeConfig(t *testing.T) {
	t.Setenv("NODE_ENV", "test")
	t.Setenv("DEBUG", "false")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".env"), "GITHUB_TOKEN=t1\n")

	p, cfg, err := InitializeConfig(context.Background(), discardLogger(), WithWorkDir(dir), WithObserver(observer.Nop{}))

	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "t1", cfg.MCPServers["github"].Env["GITHUB_PERSONAL_ACCESS_TOKEN"])
}

func TestInitializeConfig_LogsAndReturnsFailure(t *testing.T) {
	t.Setenv("NODE_ENV", "test")
	t.Setenv("DEBUG", "false")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	p, cfg, err := InitializeConfig(context.Background(), logger, WithWorkDir(t.TempDir()), WithObserver(observer.Nop{}))

	assert.ErrorIs(t, err, ErrProcessingFailed)
	assert.NotNil(t, p)
	assert.Nil(t, cfg)
	assert.Contains(t, buf.String(), "configuration initialization failed")
}

func TestInitializeConfig_ConstructionFailure(t *testing.T) {
	unset(t, "NODE_ENV")
	t.Setenv("DEBUG", "false")

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	p, _, err := InitializeConfig(context.Background(), logger, WithWorkDir(t.TempDir()))

	var missing *MissingVariableError
	require.ErrorAs(t, err, &missing)
	assert.Nil(t, p)
	assert.Contains(t, buf.String(), "configuration initialization failed")
}
