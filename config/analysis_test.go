package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAnalysisConfigEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := LoadAnalysisConfig("")
	require.NoError(t, err)
	assert.Equal(t, 0.9, cfg.Thresholds.DuplicateSimilarity)
	assert.NotEmpty(t, cfg.Lexicon.Anxiety)
}

func TestLoadAnalysisConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.yaml")
	content := `
thresholds:
  duplicate_window_seconds: 10
  hospital_request_critical: 3
  escalation_function: escalate_call
lexicon:
  pain:
    - ouch
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := LoadAnalysisConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, cfg.Thresholds.DuplicateWindow)
	assert.Equal(t, 3, cfg.Thresholds.HospitalRequestCritical)
	assert.Equal(t, "escalate_call", cfg.Thresholds.EscalationFunction)
	assert.Equal(t, []string{"ouch"}, cfg.Lexicon.Pain)

	// untouched values keep their defaults
	assert.Equal(t, 0.9, cfg.Thresholds.DuplicateSimilarity)
	assert.NotEmpty(t, cfg.Lexicon.Anxiety)
}

func TestLoadAnalysisConfigMissingFile(t *testing.T) {
	_, err := LoadAnalysisConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
