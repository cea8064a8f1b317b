package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spektr-org/vizchat/artifact"
	"github.com/spektr-org/vizchat/chatapi"
	"github.com/spektr-org/vizchat/engine"
	"github.com/spektr-org/vizchat/render"
	"github.com/spektr-org/vizchat/session"
)

// newLogger builds a console logger on stderr so stdout stays clean for
// rendered output.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.Encoding = "console"
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	zc.DisableStacktrace = true
	return zc.Build()
}

func newChat() (*chatapi.Client, *session.Manager) {
	client := chatapi.New(chatapi.Config{BaseURL: cfg.APIBaseURL, Timeout: cfg.HTTPTimeout}, logger)
	sessions := session.NewManager(session.NewFileStorage(cfg.StateFile), client, logger)
	return client, sessions
}

func engineOptions() []engine.Option {
	return cfg.EngineOptions(logger)
}

func renderOptions() render.Options {
	return render.Options{Width: cfg.Render.Width, Height: cfg.Render.Height}
}

// defaultFormat is the configured image format, falling back to png.
func defaultFormat(flagValue string) (render.Format, error) {
	return render.ParseFormat(firstNonEmpty(flagValue, cfg.Render.Format, string(render.FormatPNG)))
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// chartFileName is "<index>-<slug of title>.<ext>", e.g. "003-claims-by-size.png".
func chartFileName(index int, title string, f render.Format) string {
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(title), "-"), "-")
	if len(slug) > 48 {
		slug = strings.TrimRight(slug[:48], "-")
	}
	if slug == "" {
		slug = "chart"
	}
	return fmt.Sprintf("%03d-%s.%s", index, slug, f.Extension())
}

// writeOutput renders result into path, creating parent directories.
func writeOutput(result *engine.Result, f render.Format, path string) error {
	out, err := render.Render(result, f, renderOptions())
	if err != nil {
		return err
	}
	return writeFile(path, out)
}

func writeFile(path string, out []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// upload pushes a written chart to object storage and returns its URL.
func upload(ctx context.Context, path, key string, f render.Format) (string, error) {
	if !cfg.Artifact.Enabled {
		return "", fmt.Errorf("upload needs ARTIFACT_S3_ENDPOINT")
	}
	store, err := artifact.NewS3Store(cfg.Artifact)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	url, err := store.Put(ctx, key, data, f.ContentType())
	if err != nil {
		return "", err
	}
	logger.Info("uploaded chart", zap.String("key", key), zap.String("url", url))
	return url, nil
}

func isTextFormat(f render.Format) bool {
	switch f {
	case render.FormatTable, render.FormatMarkdown, render.FormatJSON, render.FormatCSV:
		return true
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
