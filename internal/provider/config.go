package provider

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"
)

// Format is the wire format of a configured source.
type Format string

const (
	FormatJSON Format = "json"
	FormatXML  Format = "xml"
)

// Duration supports "10s"-style strings in YAML.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// SourceConfig describes one external source in the roster file.
type SourceConfig struct {
	Name    string   `yaml:"name"`
	Format  Format   `yaml:"format"`
	URL     string   `yaml:"url"`
	Timeout Duration `yaml:"timeout"`
}

// Config is the provider roster, loaded from YAML:
//
//	sources:
//	  - name: devtube
//	    format: json
//	    url: https://api.devtube.example/contents
//	    timeout: 10s
type Config struct {
	Sources []SourceConfig `yaml:"sources"`
}

func (c *Config) Validate() error {
	if len(c.Sources) == 0 {
		return fmt.Errorf("no sources configured")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i, src := range c.Sources {
		if src.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if seen[src.Name] {
			return fmt.Errorf("source %q: duplicate name", src.Name)
		}
		seen[src.Name] = true
		if src.URL == "" {
			return fmt.Errorf("source %q: url is required", src.Name)
		}
		switch src.Format {
		case FormatJSON, FormatXML:
		default:
			return fmt.Errorf("source %q: unsupported format %q", src.Name, src.Format)
		}
	}
	return nil
}

// LoadConfig decodes and validates a provider roster.
func LoadConfig(r io.Reader) (*Config, error) {
	decoder := yaml.NewDecoder(r)
	var cfg Config
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode sources config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Build constructs the configured providers.
func (c *Config) Build() []Provider {
	providers := make([]Provider, 0, len(c.Sources))
	for _, src := range c.Sources {
		switch src.Format {
		case FormatXML:
			providers = append(providers, NewXMLProvider(src.Name, src.URL, time.Duration(src.Timeout)))
		default:
			providers = append(providers, NewJSONProvider(src.Name, src.URL, time.Duration(src.Timeout)))
		}
	}
	return providers
}
