package mapping

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

// Output formats accepted by Marshal.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// LoadDocument reads a JSON or YAML document from path.
func LoadDocument(path string) (payload.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return payload.Value{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	v, err := payload.ParseDocument(data)
	if err != nil {
		return payload.Value{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return v, nil
}

// LoadFile loads a mapping document (JSON or YAML) from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Parse parses a JSON or YAML mapping document.
func Parse(data []byte) (*Config, error) {
	v, err := payload.ParseDocument(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse mapping: %w", err)
	}

	return FromValue(v)
}

// Marshal serializes v as indented JSON or YAML. Types from this module keep
// their member order in both formats.
func Marshal(v any, format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		var buf bytes.Buffer

		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)

		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to marshal JSON: %w", err)
		}

		return buf.Bytes(), nil
	case FormatYAML, "yml":
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}

		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to marshal YAML: %w", err)
		}

		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}
}
