package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jonwraymond/xmlnav/cache"
	"github.com/jonwraymond/xmlnav/observe"
)

const fullYAML = `
identity:
  attribute: uid
  missing: bypass
  assign: true
cache:
  disabled: true
navigation:
  id_attribute: key
evaluation:
  timeout: 2s
  max_concurrent: 8
  max_wait: 50ms
observe:
  service_name: tei-reader
  version: 1.2.0
  tracing:
    enabled: true
    exporter: stdout
    sample_pct: 0.25
  metrics:
    enabled: true
    exporter: prometheus
  logging:
    enabled: true
    level: debug
  global: true
`

func TestParse_Full(t *testing.T) {
	cfg, err := Parse(strings.NewReader(fullYAML))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Identity.Attribute != "uid" || cfg.Identity.Missing != "bypass" || !cfg.Identity.Assign {
		t.Errorf("unexpected identity %+v", cfg.Identity)
	}
	if !cfg.Cache.Disabled {
		t.Error("expected cache disabled")
	}
	if cfg.Navigation.IDAttribute != "key" {
		t.Errorf("expected id_attribute key, got %q", cfg.Navigation.IDAttribute)
	}
	want := EvaluationConfig{Timeout: 2 * time.Second, MaxConcurrent: 8, MaxWait: 50 * time.Millisecond}
	if cfg.Evaluation != want {
		t.Errorf("expected evaluation %+v, got %+v", want, cfg.Evaluation)
	}

	obs := cfg.ObserverConfig()
	if obs.ServiceName != "tei-reader" || obs.Version != "1.2.0" {
		t.Errorf("unexpected observe identity %+v", obs)
	}
	if !obs.Tracing.Enabled || obs.Tracing.Exporter != "stdout" || obs.Tracing.SamplePct != 0.25 {
		t.Errorf("unexpected tracing %+v", obs.Tracing)
	}
	if !obs.Metrics.Enabled || obs.Metrics.Exporter != "prometheus" {
		t.Errorf("unexpected metrics %+v", obs.Metrics)
	}
	if !obs.Logging.Enabled || obs.Logging.Level != "debug" {
		t.Errorf("unexpected logging %+v", obs.Logging)
	}
	if !obs.Global {
		t.Error("expected global providers")
	}

	p := cfg.Policy()
	if !p.Disabled || p.MissingIdentity != cache.Bypass {
		t.Errorf("unexpected policy %+v", p)
	}
}

// TestParse_Empty verifies an empty document yields Default.
func TestParse_Empty(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	d := Default()
	if cfg.Identity != d.Identity || cfg.Navigation != d.Navigation || cfg.Cache != d.Cache {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Observe.ServiceName != DefaultServiceName || cfg.Observe.Logging.Level != "info" {
		t.Errorf("expected observe defaults, got %+v", cfg.Observe)
	}
	if p := cfg.Policy(); p != cache.DefaultPolicy() {
		t.Errorf("expected default policy, got %+v", p)
	}
}

func TestParse_PartialKeepsDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader("evaluation:\n  timeout: 100ms\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Evaluation.Timeout != 100*time.Millisecond {
		t.Errorf("expected 100ms, got %v", cfg.Evaluation.Timeout)
	}
	if cfg.Identity.Attribute != cache.DefaultIdentityAttribute {
		t.Errorf("expected default identity attribute, got %q", cfg.Identity.Attribute)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{"unknown field", "identity:\n  atribute: xml:id\n", ErrInvalidConfig},
		{"malformed", "identity: [\n", ErrInvalidConfig},
		{"bad identity attribute", "identity:\n  attribute: \"1bad\"\n", ErrInvalidConfig},
		{"bad id attribute", "navigation:\n  id_attribute: \"a b\"\n", ErrInvalidConfig},
		{"unknown policy", "identity:\n  missing: ignore\n", ErrInvalidConfig},
		{"negative timeout", "evaluation:\n  timeout: -1s\n", ErrInvalidConfig},
		{"negative concurrency", "evaluation:\n  max_concurrent: -2\n", ErrInvalidConfig},
		{"bad log level", "observe:\n  logging:\n    enabled: true\n    level: trace\n", observe.ErrInvalidLogLevel},
		{"bad exporter", "observe:\n  metrics:\n    enabled: true\n    exporter: statsd\n", observe.ErrInvalidMetricsExporter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.yaml))
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected error to wrap ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("XMLNAV_SERVICE", "from-env")

	cfg, err := Parse(strings.NewReader("observe:\n  service_name: ${XMLNAV_SERVICE}\n  version: v$$1\n"))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Observe.ServiceName != "from-env" {
		t.Errorf("expected from-env, got %q", cfg.Observe.ServiceName)
	}
	if cfg.Observe.Version != "v$1" {
		t.Errorf("expected literal dollar, got %q", cfg.Observe.Version)
	}
}

func TestExpandEnv_Missing(t *testing.T) {
	_, err := ExpandEnv("a: ${XMLNAV_UNSET_B} ${XMLNAV_UNSET_A} ${XMLNAV_UNSET_A}")
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(err.Error(), "XMLNAV_UNSET_A, XMLNAV_UNSET_B") {
		t.Errorf("expected sorted unique names, got %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xmlnav.yaml")
	if err := os.WriteFile(path, []byte(fullYAML), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Observe.ServiceName != "tei-reader" {
		t.Errorf("unexpected service name %q", cfg.Observe.ServiceName)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig for missing file, got %v", err)
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	cfg, err := Parse(strings.NewReader(fullYAML))
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	again, err := Parse(&buf)
	if err != nil {
		t.Fatalf("Parse(Encode()) error = %v", err)
	}
	if again != cfg {
		t.Errorf("round trip mismatch:\n%+v\n%+v", cfg, again)
	}
}

func TestDefault_Validates(t *testing.T) {
	d := Default()
	if err := d.Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}
