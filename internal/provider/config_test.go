package provider

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	reader := strings.NewReader(`
sources:
  - name: devtube
    format: json
    url: https://api.devtube.example/contents
    timeout: 10s
  - name: technews
    format: xml
    url: https://feeds.technews.example/latest.xml
`)

	cfg, err := LoadConfig(reader)
	require.NoError(t, err)
	require.Len(t, cfg.Sources, 2)
	assert.Equal(t, "devtube", cfg.Sources[0].Name)
	assert.Equal(t, FormatJSON, cfg.Sources[0].Format)
	assert.Equal(t, Duration(10*time.Second), cfg.Sources[0].Timeout)
	assert.Equal(t, FormatXML, cfg.Sources[1].Format)
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty roster", `sources: []`},
		{"missing name", "sources:\n  - format: json\n    url: https://x.example"},
		{"missing url", "sources:\n  - name: a\n    format: json"},
		{"bad format", "sources:\n  - name: a\n    format: csv\n    url: https://x.example"},
		{"duplicate name", "sources:\n  - name: a\n    format: json\n    url: https://x.example\n  - name: a\n    format: xml\n    url: https://y.example"},
		{"not yaml", `{{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestConfig_Build(t *testing.T) {
	cfg := &Config{Sources: []SourceConfig{
		{Name: "j", Format: FormatJSON, URL: "https://x.example"},
		{Name: "x", Format: FormatXML, URL: "https://y.example"},
	}}

	providers := cfg.Build()
	require.Len(t, providers, 2)
	assert.IsType(t, &JSONProvider{}, providers[0])
	assert.IsType(t, &XMLProvider{}, providers[1])
}
