// Package config loads navigator settings from YAML.
//
//	identity:
//	  attribute: xml:id
//	  missing: fail        # fail|bypass
//	  assign: false
//	cache:
//	  disabled: false
//	navigation:
//	  id_attribute: id
//	evaluation:
//	  timeout: 2s
//	  max_concurrent: 8
//	  max_wait: 50ms
//	observe:
//	  service_name: xmlnav
//	  tracing: {enabled: true, exporter: otlp, sample_pct: 0.1}
//	  metrics: {enabled: true, exporter: prometheus}
//	  logging: {enabled: true, level: info}
//
// References of the form ${VAR} are expanded from the environment before
// decoding; a missing variable is an error. $$ yields a literal $.
// Omitted fields take the values of Default.
package config
