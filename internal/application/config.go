package application

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// EngineConfig tunes the engine's policy knobs. Configuration is immutable
// after engine construction and validated for consistency.
type EngineConfig struct {
	// VarianceThreshold controls automatic discrepancy flagging: when the
	// judge-to-judge score range on a (criterion, contestant) pair exceeds
	// VarianceThreshold × the criterion's effective cap, a discrepancy
	// case is opened at judge-certification time. 0 disables automatic
	// flagging.
	VarianceThreshold float64 `yaml:"variance_threshold" json:"variance_threshold" validate:"min=0,max=1"`

	// SignatureHintDistance is the maximum Levenshtein distance at which a
	// rejected certification signature earns a near-miss remediation hint.
	// The signature is still rejected; only the error message changes.
	SignatureHintDistance int `yaml:"signature_hint_distance" json:"signature_hint_distance" validate:"min=0"`
}

// DefaultEngineConfig returns production defaults: automatic discrepancy
// flagging disabled and near-miss hints for signatures within distance 5.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		VarianceThreshold:     0,
		SignatureHintDistance: 5,
	}
}

// LoadEngineConfig reads an EngineConfig from a YAML file, overlaying the
// defaults. Unknown fields are rejected to surface typos early.
func LoadEngineConfig(path string) (EngineConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EngineConfig{}, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultEngineConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	// An empty file is a valid config: everything stays at the defaults.
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return EngineConfig{}, fmt.Errorf("parse config: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return EngineConfig{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}
