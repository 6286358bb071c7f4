package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := New()

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, reactive.DefaultFlushBudget, cfg.Runtime.FlushBudget)
	assert.Equal(t, DemoConfig{InitialLength: 3, StaticElements: 5, ProgressMax: 100}, cfg.Demo)
	assert.Equal(t, DefaultInspectAddr, cfg.Inspect.Addr)
	assert.Equal(t, 128, cfg.Inspect.History)
	assert.Equal(t, "reactor", cfg.Metrics.Namespace)
	assert.Empty(t, cfg.Path())

	loaded, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded, "loader defaults match New")
}

func TestLoadYAML(t *testing.T) {
	path := writeFile(t, "reactor.yaml", `
log:
  level: debug
runtime:
  flush_budget: 50
demo:
  initial_length: 7
`)
	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format, "unset keys keep their defaults")
	assert.Equal(t, 50, cfg.Runtime.FlushBudget)
	assert.Equal(t, 7, cfg.Demo.InitialLength)
	assert.Equal(t, 5, cfg.Demo.StaticElements)
	assert.Equal(t, path, cfg.Path())
}

func TestLoadJSON(t *testing.T) {
	path := writeFile(t, "reactor.json", `{"inspect": {"addr": ":9000"}, "metrics": {"namespace": "ui"}}`)
	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Inspect.Addr)
	assert.Equal(t, "ui", cfg.Metrics.Namespace)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "reactor.yaml", "runtime:\n  flush_budget: 50\n")
	t.Setenv("REACTOR_RUNTIME_FLUSH_BUDGET", "75")
	t.Setenv("REACTOR_LOG_FORMAT", "json")

	cfg, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, 75, cfg.Runtime.FlushBudget)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("REACTOR_LOG_LEVEL", "warn")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("log-level", "info", "")
	fs.Int("flush-budget", 10, "")
	fs.Bool("unrelated", false, "")
	require.NoError(t, fs.Parse([]string{"--log-level=error"}))

	l := NewLoader()
	require.NoError(t, l.BindFlags(fs))
	cfg, err := l.Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level, "explicit flag wins")
	assert.Equal(t, reactive.DefaultFlushBudget, cfg.Runtime.FlushBudget,
		"an unset flag does not replace the default")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)

	var d *errors.Diagnostic
	require.True(t, stderrors.As(err, &d))
	assert.Equal(t, "R050", d.Code)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformedFile(t *testing.T) {
	path := writeFile(t, "reactor.yaml", "log: [unclosed\n")
	_, err := NewLoader().Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "R050")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		detail string
	}{
		{"level", func(c *Config) { c.Log.Level = "loud" }, `got "loud"`},
		{"format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"budget", func(c *Config) { c.Runtime.FlushBudget = -1 }, "flush_budget"},
		{"lengths", func(c *Config) { c.Demo.StaticElements = -1 }, "negative"},
		{"progress", func(c *Config) { c.Demo.ProgressMax = 0 }, "progress_max"},
		{"addr", func(c *Config) { c.Inspect.Addr = "" }, "inspect.addr"},
		{"history", func(c *Config) { c.Inspect.History = 0 }, "inspect.history"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)

			var d *errors.Diagnostic
			require.True(t, stderrors.As(err, &d))
			assert.Contains(t, d.Detail, tt.detail)
		})
	}
}

func TestZeroFlushBudgetDisablesLimit(t *testing.T) {
	t.Setenv("REACTOR_RUNTIME_FLUSH_BUDGET", "0")
	cfg, err := NewLoader().Load("")
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Runtime.FlushBudget)
}

func TestInvalidEnvIsRejected(t *testing.T) {
	t.Setenv("REACTOR_RUNTIME_FLUSH_BUDGET", "-3")
	_, err := NewLoader().Load("")
	require.Error(t, err)
}
