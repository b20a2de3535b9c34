// Package cmd implements the tableflow CLI commands.
//
// The root command resolves tableflow.yaml and installs the error handler;
// render prints one frame of the sample table and demo runs it
// interactively.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/go-drift/tableflow/cmd/tableflow/internal/config"
	tferrors "github.com/go-drift/tableflow/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Dir     string
	Color   bool
}

// NewRootCommand creates the root command for the tableflow CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:     "tableflow",
		Short:   "tableflow - declarative list reconciliation",
		Long:    "tableflow drives a reuse-based list surface from ordered sections of rows.\nIt batches model changes into surface updates and resolves row heights.",
		Version: Version + " (built " + BuildTime + ")",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			tferrors.SetHandler(&tferrors.LogHandler{Verbose: opts.Verbose, Out: cmd.ErrOrStderr()})
			return nil
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "report errors with kind and stack traces")
	cmd.PersistentFlags().StringVar(&opts.Dir, "dir", ".", "directory containing tableflow.yaml")
	cmd.PersistentFlags().BoolVar(&opts.Color, "color", false, "render with colors")

	cmd.AddCommand(NewRenderCommand(opts))
	cmd.AddCommand(NewDemoCommand(opts))

	return cmd
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}

func resolve(opts *RootOptions) (*config.Resolved, error) {
	cfg, err := config.Resolve(opts.Dir)
	if err != nil {
		return nil, &tferrors.TableError{Op: "config.Resolve", Kind: tferrors.KindConfig, Err: err}
	}
	return cfg, nil
}
