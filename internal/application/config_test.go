// Package application provides the core business logic and orchestration for
// the scoring and certification engine.
package application

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "engine.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadEngineConfig(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr bool
		errMsg  string
		verify  func(t *testing.T, cfg EngineConfig)
	}{
		{
			name: "full config",
			yaml: `
variance_threshold: 0.3
signature_hint_distance: 3
`,
			verify: func(t *testing.T, cfg EngineConfig) {
				assert.InDelta(t, 0.3, cfg.VarianceThreshold, 1e-9)
				assert.Equal(t, 3, cfg.SignatureHintDistance)
			},
		},
		{
			name: "empty file keeps defaults",
			yaml: ``,
			verify: func(t *testing.T, cfg EngineConfig) {
				assert.Equal(t, DefaultEngineConfig(), cfg)
			},
		},
		{
			name: "partial config overlays defaults",
			yaml: `variance_threshold: 0.5`,
			verify: func(t *testing.T, cfg EngineConfig) {
				assert.InDelta(t, 0.5, cfg.VarianceThreshold, 1e-9)
				assert.Equal(t, DefaultEngineConfig().SignatureHintDistance,
					cfg.SignatureHintDistance)
			},
		},
		{
			name:    "unknown field rejected",
			yaml:    `varianse_threshold: 0.3`,
			wantErr: true,
			errMsg:  "parse config",
		},
		{
			name:    "variance threshold above one rejected",
			yaml:    `variance_threshold: 1.5`,
			wantErr: true,
			errMsg:  "configuration validation failed",
		},
		{
			name:    "negative hint distance rejected",
			yaml:    `signature_hint_distance: -1`,
			wantErr: true,
			errMsg:  "configuration validation failed",
		},
		{
			name:    "malformed yaml rejected",
			yaml:    `variance_threshold: [`,
			wantErr: true,
			errMsg:  "parse config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadEngineConfig(writeConfig(t, tt.yaml))
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			if tt.verify != nil {
				tt.verify(t, cfg)
			}
		})
	}
}

func TestLoadEngineConfig_MissingFile(t *testing.T) {
	_, err := LoadEngineConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestDefaultEngineConfig(t *testing.T) {
	cfg := DefaultEngineConfig()
	assert.Zero(t, cfg.VarianceThreshold, "automatic flagging is off by default")
	assert.Equal(t, 5, cfg.SignatureHintDistance)
	assert.NoError(t, validate.Struct(cfg), "defaults must pass their own validation")
}
