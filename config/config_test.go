package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spektr-org/vizchat/engine"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("VIZCHAT_CONFIG", "")
	t.Setenv("VIZCHAT_API_BASE_URL", "")
	t.Setenv("ARTIFACT_S3_ENDPOINT", "")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.APIBaseURL)
	assert.Equal(t, 30*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"Vehicle Size"}, cfg.Engine.CategoryFallbacks)
	assert.Equal(t, []string{"Total Claim Amount"}, cfg.Engine.ValueFallbacks)
	assert.False(t, cfg.Artifact.Enabled)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vizchat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api_base_url: http://backend:9000
engine:
  category_fallbacks: ["Policy"]
  value_fallbacks: []
  palette: ["#000000"]
  sample_size: 5
render:
  width: 1200
`), 0o600))

	t.Setenv("VIZCHAT_API_BASE_URL", "http://override:1")
	t.Setenv("VIZCHAT_HTTP_TIMEOUT", "5s")
	t.Setenv("ARTIFACT_S3_ENDPOINT", "minio:9000")
	t.Setenv("ARTIFACT_S3_USE_SSL", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://override:1", cfg.APIBaseURL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, []string{"Policy"}, cfg.Engine.CategoryFallbacks)
	assert.Empty(t, cfg.Engine.ValueFallbacks)
	assert.Equal(t, 5, cfg.Engine.SampleSize)
	assert.Equal(t, 1200, cfg.Render.Width)
	assert.Equal(t, 500, cfg.Render.Height)
	assert.True(t, cfg.Artifact.Enabled)
	assert.False(t, cfg.Artifact.UseSSL)
	assert.Equal(t, "vizchat-charts", cfg.Artifact.Bucket)
}

func TestLoad_BadTimeout(t *testing.T) {
	t.Setenv("VIZCHAT_CONFIG", "")
	t.Setenv("VIZCHAT_HTTP_TIMEOUT", "soon")
	_, err := Load("")
	assert.Error(t, err)
}

func TestEngineOptions_ApplyFallbacks(t *testing.T) {
	cfg := Defaults()
	desc := &engine.Descriptor{
		Kind: engine.KindCategoryBar,
		Records: []engine.Record{
			engine.NewRecord("State", "CA", "Vehicle Size", "Large", "Income", 1, "Total Claim Amount", 2),
		},
	}
	spec, err := engine.Resolve(desc, cfg.EngineOptions(zap.NewNop())...)
	require.NoError(t, err)
	assert.Equal(t, "Vehicle Size", spec.Keys.Category)
	assert.Equal(t, "Total Claim Amount", spec.Keys.Value)
}
