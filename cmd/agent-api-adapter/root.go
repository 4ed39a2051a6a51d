package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Adityahash12/agent-api-adapter/internal/adapter"
	"github.com/Adityahash12/agent-api-adapter/internal/apperr"
	"github.com/Adityahash12/agent-api-adapter/internal/config"
	"github.com/Adityahash12/agent-api-adapter/internal/match"
	"github.com/Adityahash12/agent-api-adapter/internal/observability/logging"
	"github.com/Adityahash12/agent-api-adapter/internal/schema"
)

// Exit codes.
const (
	exitOK          = 0
	exitFailure     = 1
	exitCallerFault = 2
)

// usageError marks command line mistakes.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// app carries state shared by subcommands once flags are parsed.
type app struct {
	stdout  io.Writer
	stderr  io.Writer
	envFile string
	cfg     *config.Config
	logger  zerolog.Logger
}

func run(args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(context.Background())
	if err == nil {
		return exitOK
	}

	fmt.Fprintf(stderr, "error: %v\n", err)

	var ue *usageError
	if errors.As(err, &ue) || apperr.IsInvalidArgument(err) || apperr.IsSchemaConfiguration(err) {
		return exitCallerFault
	}

	return exitFailure
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "agent-api-adapter",
		Short:         "Map arbitrary API responses onto an agent-facing JSON Schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.init()
		},
	}

	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	root.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "dotenv file loaded before reading the environment")

	root.AddCommand(
		newServeCmd(a),
		newMCPCmd(a),
		newGenerateCmd(a),
		newTransformCmd(a),
		newDemoCmd(a),
	)

	return root
}

func (a *app) init() error {
	cfg, cfgErr := config.Load(a.envFile)

	a.cfg = cfg
	a.logger = logging.Init(logging.Config{
		Level:  cfg.Observability.LogLevel,
		Format: cfg.Observability.LogFormat,
	}, a.stderr)

	if cfgErr != nil {
		a.logger.Warn().Err(cfgErr).Msg("invalid configuration values replaced by defaults")
	}

	return nil
}

// service builds the adapter service from configuration.
func (a *app) service(opts ...adapter.Option) *adapter.Service {
	scorer, err := match.ScorerByName(a.cfg.Matching.Scorer)
	if err != nil {
		scorer = match.JaroWinkler
	}

	base := []adapter.Option{
		adapter.WithScorer(scorer),
		adapter.WithCache(schema.NewCache(a.cfg.Matching.SchemaCacheSize)),
		adapter.WithLogger(a.logger),
	}

	return adapter.NewService(append(base, opts...)...)
}
