package main

import (
	"fmt"

	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
	"github.com/Adityahash12/agent-api-adapter/internal/mapping"
	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

// loadInput reads a JSON or YAML document named by a flag. Unreadable or
// malformed files are the caller's fault.
func loadInput(name, path string) (payload.Value, error) {
	v, err := mapping.LoadDocument(path)
	if err != nil {
		return payload.Value{}, apperr.InvalidArgumentf("--%s: %v", name, err)
	}

	return v, nil
}

func (a *app) print(v any, format string) error {
	switch format {
	case mapping.FormatJSON, mapping.FormatYAML, "yml":
	default:
		return apperr.InvalidArgumentf("unsupported output format %q (want json or yaml)", format)
	}

	out, err := mapping.Marshal(v, format)
	if err != nil {
		return err
	}

	if _, err := a.stdout.Write(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	return nil
}
