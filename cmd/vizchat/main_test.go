package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/vizchat/render"
)

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("VIZCHAT_STATE_FILE", filepath.Join(t.TempDir(), "state.yaml"))
	t.Setenv("VIZCHAT_OUTPUT_DIR", t.TempDir())
	t.Setenv("VIZCHAT_LOG_LEVEL", "error")

	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute(), out.String())
	return out.String()
}

func TestPaletteCommand(t *testing.T) {
	out := runCLI(t, "palette", "-n", "13")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 13)
	assert.Contains(t, lines[0], "#8884d8")
	assert.Contains(t, lines[12], "#8884d899")
}

func TestRenderCommand_CSVToTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.csv")
	require.NoError(t, os.WriteFile(path, []byte("Vehicle Size,Total Claim Amount\nSmall,1200\nLarge,800\n"), 0o644))

	out := runCLI(t, "render", "--csv", path, "--type", "bar", "--format", "csv")
	assert.Equal(t, "Vehicle Size,Total Claim Amount\nSmall,\"1,200\"\nLarge,800\nTotal,\"2,000\"\n", out)
}

func TestRenderCommand_DescriptorToPNG(t *testing.T) {
	dir := t.TempDir()
	desc := filepath.Join(dir, "reply.json")
	require.NoError(t, os.WriteFile(desc, []byte(`{"type":"pie","data":[{"k":"a","v":2},{"k":"b","v":3}]}`), 0o644))
	target := filepath.Join(dir, "out", "pie.png")

	out := runCLI(t, "render", "-f", desc, "--format", "png", "-o", target)
	assert.Equal(t, target, strings.TrimSpace(out))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")))
}

func TestChartFileName(t *testing.T) {
	assert.Equal(t, "003-claims-by-vehicle-size.png", chartFileName(3, "Claims by Vehicle Size!", render.FormatPNG))
	assert.Equal(t, "001-chart.md", chartFileName(1, "", render.FormatMarkdown))
}

func TestNewLogger(t *testing.T) {
	_, err := newLogger("debug")
	assert.NoError(t, err)
	_, err = newLogger("loud")
	assert.Error(t, err)
}

func TestHistoryCommand_RenderFailureStaysWithItsMessage(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/chat/session":
			_, _ = w.Write([]byte(`{"status":"success","chat_id":"chat-7"}`))
		case "/api/chat/history/chat-7":
			_, _ = w.Write([]byte(`{"status":"success","history":[
				{"content":"losses","role":"assistant","timestamp":"2025-03-01T10:00:00",
				 "visualization":{"type":"pie","title":"Losses","data":[{"k":"a","v":-2},{"k":"b","v":-3}]}},
				{"content":"claims","role":"assistant","timestamp":"2025-03-01T10:00:01",
				 "visualization":{"type":"bar","title":"Claims","data":[{"Size":"Mid","Claim":1200}]}}
			]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(backend.Close)
	t.Setenv("VIZCHAT_API_BASE_URL", backend.URL)

	out := runCLI(t, "history", "--format", "png", "-p", "1")
	assert.Contains(t, out, "no positive values")
	assert.Contains(t, out, "002-claims.png")
}
