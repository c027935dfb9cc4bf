// Package webhook builds and delivers outbound notifications for a record:
// payloads come from a static field mapping or a rendered JSON template, and
// delivery goes through a rate-limited, tuned HTTP client.
package webhook

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-yaml"
)

// DefaultTimeout bounds a single delivery request.
const DefaultTimeout = 30 * time.Second

var ErrConfig = errors.New("webhook: invalid configuration")

// FieldMapping copies one record field into the payload under a key.
type FieldMapping struct {
	Key   string `yaml:"key"`
	Field string `yaml:"field"`
}

// Config describes one webhook endpoint. Exactly one payload source applies:
// a field mapping, or a JSON body template rendered against the record.
type Config struct {
	URL          string            `yaml:"url"`
	Method       string            `yaml:"method,omitempty"`
	Headers      map[string]string `yaml:"headers,omitempty"`
	Timeout      time.Duration     `yaml:"timeout,omitempty"`
	RateLimit    float64           `yaml:"rate_limit,omitempty"` // deliveries per second, 0 = unlimited
	Data         []FieldMapping    `yaml:"data,omitempty"`
	BodyTemplate string            `yaml:"body_template,omitempty"`
	Redact       []string          `yaml:"redact,omitempty"` // values stripped from debug dumps
}

// ParseConfig decodes a YAML webhook document and applies defaults.
func ParseConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := yaml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfig, err)
	}

	if cfg.Method == "" {
		cfg.Method = http.MethodPost
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration is deliverable.
func (c *Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("%w: url is required", ErrConfig)
	}
	if len(c.Data) > 0 && c.BodyTemplate != "" {
		return fmt.Errorf("%w: data mapping and body_template are mutually exclusive", ErrConfig)
	}
	for i, m := range c.Data {
		if m.Key == "" || m.Field == "" {
			return fmt.Errorf("%w: data mapping %d needs both key and field", ErrConfig, i)
		}
	}
	return nil
}
