package config

import (
	"os"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/vango-dev/reactor/internal/errors"
	"github.com/vango-dev/reactor/pkg/reactive"
)

const (
	// EnvPrefix prefixes every environment variable read by the loader.
	EnvPrefix = "REACTOR"

	// DefaultInspectAddr is the default inspector listen address.
	DefaultInspectAddr = "127.0.0.1:7070"
)

// Config is the complete CLI configuration.
type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Runtime RuntimeConfig `mapstructure:"runtime"`
	Demo    DemoConfig    `mapstructure:"demo"`
	Inspect InspectConfig `mapstructure:"inspect"`
	Metrics MetricsConfig `mapstructure:"metrics"`

	// path is the file the config was read from, if any.
	path string
}

// LogConfig selects the log handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`

	// Format is text or json.
	Format string `mapstructure:"format"`
}

// RuntimeConfig tunes the reactive runtime.
type RuntimeConfig struct {
	// FlushBudget caps the computations run by a single flush.
	// Zero disables the cap.
	FlushBudget int `mapstructure:"flush_budget"`
}

// DemoConfig sizes the demo page.
type DemoConfig struct {
	InitialLength  int `mapstructure:"initial_length"`
	StaticElements int `mapstructure:"static_elements"`
	ProgressMax    int `mapstructure:"progress_max"`
}

// InspectConfig configures the inspector server.
type InspectConfig struct {
	Addr    string `mapstructure:"addr"`
	History int    `mapstructure:"history"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	Namespace string `mapstructure:"namespace"`
}

var defaults = map[string]any{
	"log.level":            "info",
	"log.format":           "text",
	"runtime.flush_budget": reactive.DefaultFlushBudget,
	"demo.initial_length":  3,
	"demo.static_elements": 5,
	"demo.progress_max":    100,
	"inspect.addr":         DefaultInspectAddr,
	"inspect.history":      128,
	"metrics.namespace":    "reactor",
}

// flagKeys maps command-line flags to config keys.
var flagKeys = map[string]string{
	"log-level":    "log.level",
	"log-format":   "log.format",
	"flush-budget": "runtime.flush_budget",
	"addr":         "inspect.addr",
	"namespace":    "metrics.namespace",
}

// New returns a Config holding the defaults. The environment is not read.
func New() *Config {
	return &Config{
		Log:     LogConfig{Level: "info", Format: "text"},
		Runtime: RuntimeConfig{FlushBudget: reactive.DefaultFlushBudget},
		Demo:    DemoConfig{InitialLength: 3, StaticElements: 5, ProgressMax: 100},
		Inspect: InspectConfig{Addr: DefaultInspectAddr, History: 128},
		Metrics: MetricsConfig{Namespace: "reactor"},
	}
}

// Loader layers defaults, a file, the environment and flags.
type Loader struct {
	v *viper.Viper
}

// NewLoader returns a loader with defaults and environment lookup set up.
func NewLoader() *Loader {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &Loader{v: v}
}

// BindFlags lets the known flags in fs override file and environment
// values. Flags fs does not define are ignored.
func (l *Loader) BindFlags(fs *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := fs.Lookup(name)
		if f == nil {
			continue
		}
		if err := l.v.BindPFlag(key, f); err != nil {
			return errors.New("R050").Wrap(err)
		}
	}
	return nil
}

// Load reads path, if not empty, and returns the validated configuration.
func (l *Loader) Load(path string) (*Config, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.New("R050").
				WithDetail("Config file " + path + " could not be opened.").
				WithSuggestion("Check the --config path, or omit it to use defaults").
				Wrap(err)
		}
		l.v.SetConfigFile(path)
		if err := l.v.ReadInConfig(); err != nil {
			return nil, errors.New("R050").
				WithDetail("Failed to parse " + path + ".").
				WithSuggestion("Check that the file is valid YAML, JSON or TOML").
				Wrap(err)
		}
	}

	cfg := &Config{path: path}
	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, errors.New("R050").Wrap(err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file the config was read from, or "".
func (c *Config) Path() string {
	return c.path
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log.level must be one of debug, info, warn, error; got " + quote(c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return invalid("log.format must be text or json; got " + quote(c.Log.Format))
	}
	if c.Runtime.FlushBudget < 0 {
		return invalid("runtime.flush_budget must not be negative (0 disables the limit)")
	}
	if c.Demo.InitialLength < 0 || c.Demo.StaticElements < 0 {
		return invalid("demo list sizes must not be negative")
	}
	if c.Demo.ProgressMax <= 0 {
		return invalid("demo.progress_max must be positive")
	}
	if c.Inspect.Addr == "" {
		return invalid("inspect.addr must not be empty")
	}
	if c.Inspect.History <= 0 {
		return invalid("inspect.history must be positive")
	}
	return nil
}

func invalid(detail string) error {
	return errors.New("R050").WithDetail(detail)
}

func quote(s string) string {
	return `"` + s + `"`
}
