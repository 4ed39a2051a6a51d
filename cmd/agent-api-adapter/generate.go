package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"github.com/Adityahash12/agent-api-adapter/internal/adapter"
	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
	"github.com/Adityahash12/agent-api-adapter/internal/mapping"
)

type generateFlags struct {
	sample  string
	schema  string
	explain bool
	output  string
	debug   bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Infer a mapping from a sample response to a target schema",
		Long: `Infer a mapping from a sample API response to a target JSON Schema.

Both documents may be JSON or YAML. The bare mapping is printed unless
--explain is set, in which case the full response with per-property
match details is printed.`,
		Example: `  agent-api-adapter generate --sample weather.json --schema schema.json
  agent-api-adapter generate --sample weather.json --schema schema.json --explain -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.generate(cmd, f)
		},
	}

	cmd.Flags().StringVar(&f.sample, "sample", "", "sample API response file (JSON or YAML)")
	cmd.Flags().StringVar(&f.schema, "schema", "", "target JSON Schema file (JSON or YAML)")
	cmd.Flags().BoolVar(&f.explain, "explain", false, "include per-property match details")
	cmd.Flags().StringVarP(&f.output, "output", "o", mapping.FormatJSON, "output format: json or yaml")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "dump the full inference to stderr")

	return cmd
}

func (a *app) generate(cmd *cobra.Command, f generateFlags) error {
	if f.sample == "" || f.schema == "" {
		return apperr.NewInvalidArgument("--sample and --schema are required")
	}

	sample, err := loadInput("sample", f.sample)
	if err != nil {
		return err
	}

	sch, err := loadInput("schema", f.schema)
	if err != nil {
		return err
	}

	resp, err := a.service().GenerateMapping(cmd.Context(), adapter.GenerateRequest{
		SampleAPIResponse: sample,
		TargetSchema:      sch,
		Explain:           f.explain || f.debug,
	})
	if err != nil {
		return err
	}

	if f.debug {
		spew.Fdump(a.stderr, resp.Explanation)
	}

	var out any = resp.MappingConfig
	if f.explain {
		out = resp
	}

	return a.print(out, f.output)
}
