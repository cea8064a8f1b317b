package artifact

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spektr-org/vizchat/config"
)

func TestObjectKey(t *testing.T) {
	cases := map[string]string{
		"":                     "",
		"  a/b.png ":           "a/b.png",
		"/charts/x.png":        "charts/x.png",
		"charts/../../etc/pwd": "etc/pwd",
		`charts\win\x.svg`:     "charts/win/x.svg",
	}
	for in, want := range cases {
		assert.Equal(t, want, ObjectKey(in), "input %q", in)
	}
}

func TestChartKey(t *testing.T) {
	assert.Equal(t, "charts/chat-1/003.png", ChartKey("chat-1", "003", ".png"))
	assert.Equal(t, "charts/local/x.xlsx", ChartKey("", "x", "xlsx"))
}

func TestNewS3Store_Validates(t *testing.T) {
	_, err := NewS3Store(config.ArtifactConfig{})
	assert.ErrorContains(t, err, "endpoint")

	_, err = NewS3Store(config.ArtifactConfig{Endpoint: "localhost:9000", Bucket: "b"})
	assert.ErrorContains(t, err, "access key")

	s, err := NewS3Store(config.ArtifactConfig{
		Endpoint: "localhost:9000", AccessKey: "k", SecretKey: "s", Bucket: "charts",
	})
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", s.region)
	assert.Equal(t, "http://localhost:9000/charts/a/b.png", s.objectURL("a/b.png"))
}
