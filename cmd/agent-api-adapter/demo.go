package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Adityahash12/agent-api-adapter/internal/adapter"
	"github.com/Adityahash12/agent-api-adapter/internal/httpapi"
	"github.com/Adityahash12/agent-api-adapter/internal/payload"
)

const (
	demoSample = `{"temp_c": 32, "hum": 75, "city_name": "Bangalore"}`
	demoSchema = `{
  "type": "object",
  "properties": {
    "temperature": {"type": "number"},
    "humidity": {"type": "number"},
    "city": {"type": "string"}
  },
  "required": ["temperature", "humidity", "city"]
}`
)

func newDemoCmd(a *app) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the weather example against a running server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.demo(cmd, baseURL)
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "http://localhost:3000", "server base URL")

	return cmd
}

func (a *app) demo(cmd *cobra.Command, baseURL string) error {
	sample, err := payload.Parse([]byte(demoSample))
	if err != nil {
		return err
	}

	sch, err := payload.Parse([]byte(demoSchema))
	if err != nil {
		return err
	}

	client := httpapi.NewClient(baseURL)

	gen, err := client.Generate(cmd.Context(), adapter.GenerateRequest{
		SampleAPIResponse: sample,
		TargetSchema:      sch,
	})
	if err != nil {
		return fmt.Errorf("generate: %w", err)
	}

	fmt.Fprintln(a.stdout, "# mapping")

	if err := a.print(gen.MappingConfig, "json"); err != nil {
		return err
	}

	res, err := client.Transform(cmd.Context(), adapter.TransformRequest{
		RawAPIResponse: sample,
		MappingConfig:  gen.MappingConfig.Value(),
		TargetSchema:   sch,
	})
	if err != nil {
		return fmt.Errorf("transform: %w", err)
	}

	fmt.Fprintln(a.stdout, "# transform")

	return a.print(res, "json")
}
