package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	yaml "github.com/goccy/go-yaml"

	"github.com/jonwraymond/xmlnav/cache"
	"github.com/jonwraymond/xmlnav/nav"
	"github.com/jonwraymond/xmlnav/observe"
	"github.com/jonwraymond/xmlnav/query"
)

// ErrInvalidConfig wraps every decoding and validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// DefaultServiceName is the telemetry service name when none is configured.
const DefaultServiceName = "xmlnav"

// Config is the root configuration document.
type Config struct {
	Identity   IdentityConfig   `yaml:"identity"`
	Cache      CacheConfig      `yaml:"cache"`
	Navigation NavigationConfig `yaml:"navigation"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Observe    ObserveConfig    `yaml:"observe"`
}

// IdentityConfig controls how context nodes are keyed.
type IdentityConfig struct {
	// Attribute carries node identity. Default: xml:id
	Attribute string `yaml:"attribute"`

	// Missing is the policy for nodes without identity: fail or bypass.
	// Default: fail
	Missing string `yaml:"missing"`

	// Assign stamps a generated identity on elements lacking one at load time.
	Assign bool `yaml:"assign"`
}

// CacheConfig controls memoization.
type CacheConfig struct {
	Disabled bool `yaml:"disabled"`
}

// NavigationConfig controls navigator behavior.
type NavigationConfig struct {
	// IDAttribute is matched by DescendantByID. Default: id
	IDAttribute string `yaml:"id_attribute"`
}

// EvaluationConfig guards individual evaluations. Zero values disable a guard.
type EvaluationConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	MaxConcurrent int           `yaml:"max_concurrent"`
	MaxWait       time.Duration `yaml:"max_wait"`
}

// ObserveConfig mirrors observe.Config.
type ObserveConfig struct {
	ServiceName string        `yaml:"service_name"`
	Version     string        `yaml:"version"`
	Tracing     TracingConfig `yaml:"tracing"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Logging     LoggingConfig `yaml:"logging"`

	// Global installs the telemetry providers as the process-wide otel globals.
	Global bool `yaml:"global"`
}

type TracingConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Exporter  string  `yaml:"exporter"`
	SamplePct float64 `yaml:"sample_pct"`
}

type MetricsConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Exporter string `yaml:"exporter"`
}

type LoggingConfig struct {
	Enabled bool   `yaml:"enabled"`
	Level   string `yaml:"level"`
}

// Default returns the configuration used for omitted fields.
func Default() Config {
	return Config{
		Identity:   IdentityConfig{Attribute: cache.DefaultIdentityAttribute, Missing: cache.FailFast.String()},
		Navigation: NavigationConfig{IDAttribute: nav.DefaultIDAttribute},
		Observe: ObserveConfig{
			ServiceName: DefaultServiceName,
			Tracing:     TracingConfig{Exporter: "none", SamplePct: 1},
			Metrics:     MetricsConfig{Exporter: "none"},
			Logging:     LoggingConfig{Level: "info"},
		},
	}
}

// Load reads and validates the YAML file at path.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse expands environment references in r, decodes it and validates the
// result. Unknown fields are rejected.
func Parse(r io.Reader) (Config, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	text, err := ExpandEnv(string(raw))
	if err != nil {
		return Config{}, err
	}

	cfg := Default()
	if err := yaml.UnmarshalWithOptions([]byte(text), &cfg, yaml.DisallowUnknownField()); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	d := Default()
	if c.Identity.Attribute == "" {
		c.Identity.Attribute = d.Identity.Attribute
	}
	if c.Identity.Missing == "" {
		c.Identity.Missing = d.Identity.Missing
	}
	if c.Navigation.IDAttribute == "" {
		c.Navigation.IDAttribute = d.Navigation.IDAttribute
	}
	if c.Observe.ServiceName == "" {
		c.Observe.ServiceName = d.Observe.ServiceName
	}
	if c.Observe.Tracing.Exporter == "" {
		c.Observe.Tracing.Exporter = d.Observe.Tracing.Exporter
	}
	if c.Observe.Metrics.Exporter == "" {
		c.Observe.Metrics.Exporter = d.Observe.Metrics.Exporter
	}
	if c.Observe.Logging.Level == "" {
		c.Observe.Logging.Level = d.Observe.Logging.Level
	}
}

// Validate checks names, policies, durations and telemetry settings.
func (c *Config) Validate() error {
	for _, name := range []string{c.Identity.Attribute, c.Navigation.IDAttribute} {
		if _, err := query.AttrClause(query.Attrs(query.Has(name))); err != nil {
			return fmt.Errorf("%w: attribute %q: %v", ErrInvalidConfig, name, err)
		}
	}
	if _, err := cache.ParseIdentityPolicy(c.Identity.Missing); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	e := c.Evaluation
	if e.Timeout < 0 || e.MaxWait < 0 || e.MaxConcurrent < 0 {
		return fmt.Errorf("%w: evaluation limits must not be negative", ErrInvalidConfig)
	}

	obs := c.ObserverConfig()
	if err := obs.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Policy returns the cache policy described by c.
func (c Config) Policy() cache.Policy {
	missing, _ := cache.ParseIdentityPolicy(c.Identity.Missing)
	return cache.Policy{Disabled: c.Cache.Disabled, MissingIdentity: missing}
}

// ObserverConfig converts the observe section.
func (c Config) ObserverConfig() observe.Config {
	o := c.Observe
	return observe.Config{
		ServiceName: o.ServiceName,
		Version:     o.Version,
		Tracing:     observe.TracingConfig{Enabled: o.Tracing.Enabled, Exporter: o.Tracing.Exporter, SamplePct: o.Tracing.SamplePct},
		Metrics:     observe.MetricsConfig{Enabled: o.Metrics.Enabled, Exporter: o.Metrics.Exporter},
		Logging:     observe.LoggingConfig{Enabled: o.Logging.Enabled, Level: o.Logging.Level},
		Global:      o.Global,
	}
}

// Encode writes c as YAML.
func (c Config) Encode(w io.Writer) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	_, err = w.Write(data)
	return err
}
