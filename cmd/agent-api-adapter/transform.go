package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adityahash12/agent-api-adapter/internal/adapter"
	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
	"github.com/Adityahash12/agent-api-adapter/internal/diagnostic"
	"github.com/Adityahash12/agent-api-adapter/internal/mapping"
)

type transformFlags struct {
	raw     string
	mapping string
	schema  string
	output  string
	strict  bool
}

// errInvalidResult is returned by transform --strict when validation fails.
type errInvalidResult struct{ result diagnostic.Result }

func (e *errInvalidResult) Error() string {
	return fmt.Sprintf("transformed object failed validation with %d violation(s): %v",
		len(e.result.Errors), e.result.Error())
}

func (e *errInvalidResult) Unwrap() error { return e.result.Error() }

func newTransformCmd(a *app) *cobra.Command {
	var f transformFlags

	cmd := &cobra.Command{
		Use:   "transform",
		Short: "Apply a mapping to a raw response and validate the result",
		Example: `  agent-api-adapter transform --raw weather.json --mapping mapping.yaml --schema schema.json
  agent-api-adapter transform --raw weather.json --mapping mapping.json --schema schema.json --strict`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.transform(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.raw, "raw", "", "raw API response file (JSON or YAML)")
	cmd.Flags().StringVar(&f.mapping, "mapping", "", "mapping file (JSON or YAML)")
	cmd.Flags().StringVar(&f.schema, "schema", "", "target JSON Schema file (JSON or YAML)")
	cmd.Flags().StringVarP(&f.output, "output", "o", mapping.FormatJSON, "output format: json or yaml")
	cmd.Flags().BoolVar(&f.strict, "strict", false, "exit non-zero when validation fails")

	return cmd
}

func (a *app) transform(cmd *cobra.Command, f transformFlags) error {
	if f.raw == "" || f.mapping == "" || f.schema == "" {
		return apperr.NewInvalidArgument("--raw, --mapping, and --schema are required")
	}

	raw, err := loadInput("raw", f.raw)
	if err != nil {
		return err
	}

	cfg, err := mapping.LoadFile(f.mapping)
	if err != nil {
		return apperr.InvalidArgumentf("--mapping: %v", err)
	}

	schemaDoc, err := loadInput("schema", f.schema)
	if err != nil {
		return err
	}

	res, err := a.service().TransformAndValidate(cmd.Context(), adapter.TransformRequest{
		RawAPIResponse: raw,
		MappingConfig:  cfg.Value(),
		TargetSchema:   schemaDoc,
	})
	if err != nil {
		return err
	}

	if err := a.print(res, f.output); err != nil {
		return err
	}

	if f.strict && !res.Validation.Valid {
		return &errInvalidResult{result: res.Validation}
	}

	return nil
}
