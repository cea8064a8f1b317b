// Package config loads vizchat settings from the environment, an optional
// .env file, and an optional YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/spektr-org/vizchat/engine"
)

// Config holds the resolved settings. Environment variables override the YAML
// file, which overrides the defaults.
type Config struct {
	APIBaseURL  string
	HTTPTimeout time.Duration
	StateFile   string
	OutputDir   string
	LogLevel    string
	Addr        string

	Engine   EngineConfig   `yaml:"engine"`
	Render   RenderConfig   `yaml:"render"`
	Artifact ArtifactConfig `yaml:"-"`
}

// EngineConfig is the `engine:` block of the YAML file.
type EngineConfig struct {
	CategoryFallbacks []string `yaml:"category_fallbacks"`
	ValueFallbacks    []string `yaml:"value_fallbacks"`
	Palette           []string `yaml:"palette"`
	SampleSize        int      `yaml:"sample_size"`
}

// RenderConfig is the `render:` block of the YAML file.
type RenderConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Format string `yaml:"format"`
}

// ArtifactConfig configures the S3-compatible chart store. It is read from
// the environment only.
type ArtifactConfig struct {
	Enabled   bool
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// fileConfig mirrors the YAML layout.
type fileConfig struct {
	APIBaseURL string       `yaml:"api_base_url"`
	OutputDir  string       `yaml:"output_dir"`
	Engine     EngineConfig `yaml:"engine"`
	Render     RenderConfig `yaml:"render"`
}

// Defaults returns the built-in configuration. The fallback field names are
// the ones the claims dataset backend emits.
func Defaults() *Config {
	return &Config{
		APIBaseURL:  "http://localhost:5000",
		HTTPTimeout: 30 * time.Second,
		StateFile:   defaultStateFile(),
		OutputDir:   "charts",
		LogLevel:    "info",
		Addr:        ":8090",
		Engine: EngineConfig{
			CategoryFallbacks: []string{"Vehicle Size"},
			ValueFallbacks:    []string{"Total Claim Amount"},
			SampleSize:        1,
		},
		Render: RenderConfig{Width: 900, Height: 500, Format: "png"},
	}
}

// Load reads .env (if present), then the YAML file at path (if non-empty, or
// $VIZCHAT_CONFIG), then environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := Defaults()

	path = firstNonEmpty(path, os.Getenv("VIZCHAT_CONFIG"))
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	cfg.APIBaseURL = firstNonEmpty(strings.TrimSpace(os.Getenv("VIZCHAT_API_BASE_URL")), cfg.APIBaseURL)
	cfg.StateFile = firstNonEmpty(strings.TrimSpace(os.Getenv("VIZCHAT_STATE_FILE")), cfg.StateFile)
	cfg.OutputDir = firstNonEmpty(strings.TrimSpace(os.Getenv("VIZCHAT_OUTPUT_DIR")), cfg.OutputDir)
	cfg.LogLevel = firstNonEmpty(strings.TrimSpace(os.Getenv("VIZCHAT_LOG_LEVEL")), cfg.LogLevel)
	cfg.Addr = firstNonEmpty(strings.TrimSpace(os.Getenv("VIZCHAT_ADDR")), cfg.Addr)

	if raw := strings.TrimSpace(os.Getenv("VIZCHAT_HTTP_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("VIZCHAT_HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	cfg.Artifact = loadArtifactConfig()
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	c.APIBaseURL = firstNonEmpty(fc.APIBaseURL, c.APIBaseURL)
	c.OutputDir = firstNonEmpty(fc.OutputDir, c.OutputDir)
	if fc.Engine.CategoryFallbacks != nil {
		c.Engine.CategoryFallbacks = fc.Engine.CategoryFallbacks
	}
	if fc.Engine.ValueFallbacks != nil {
		c.Engine.ValueFallbacks = fc.Engine.ValueFallbacks
	}
	if len(fc.Engine.Palette) > 0 {
		c.Engine.Palette = fc.Engine.Palette
	}
	if fc.Engine.SampleSize > 0 {
		c.Engine.SampleSize = fc.Engine.SampleSize
	}
	if fc.Render.Width > 0 {
		c.Render.Width = fc.Render.Width
	}
	if fc.Render.Height > 0 {
		c.Render.Height = fc.Render.Height
	}
	c.Render.Format = firstNonEmpty(fc.Render.Format, c.Render.Format)
	return nil
}

// EngineOptions converts the engine block into engine options.
func (c *Config) EngineOptions(log *zap.Logger) []engine.Option {
	opts := []engine.Option{
		engine.WithCategoryFallbacks(c.Engine.CategoryFallbacks...),
		engine.WithValueFallbacks(c.Engine.ValueFallbacks...),
		engine.WithSampleSize(c.Engine.SampleSize),
		engine.WithLogger(log),
	}
	if len(c.Engine.Palette) > 0 {
		opts = append(opts, engine.WithBasePalette(c.Engine.Palette...))
	}
	return opts
}

func loadArtifactConfig() ArtifactConfig {
	endpoint := strings.TrimSpace(os.Getenv("ARTIFACT_S3_ENDPOINT"))
	return ArtifactConfig{
		Enabled:   endpoint != "",
		Endpoint:  endpoint,
		Region:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_REGION")), "us-east-1"),
		AccessKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_ACCESS_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_USER"))),
		SecretKey: firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_SECRET_KEY")), strings.TrimSpace(os.Getenv("MINIO_ROOT_PASSWORD"))),
		Bucket:    firstNonEmpty(strings.TrimSpace(os.Getenv("ARTIFACT_S3_BUCKET")), "vizchat-charts"),
		UseSSL:    parseBool(os.Getenv("ARTIFACT_S3_USE_SSL"), true),
	}
}

func defaultStateFile() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return ".vizchat-state.yaml"
	}
	return filepath.Join(home, ".vizchat", "state.yaml")
}

func parseBool(raw string, def bool) bool {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def
	}
	return v
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
