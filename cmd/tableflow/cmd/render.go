package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRenderCommand creates the render subcommand.
func NewRenderCommand(rootOpts *RootOptions) *cobra.Command {
	var height int

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print one frame of the sample table",
		Long: `Print one frame of the sample table to stdout.

By default the whole table is printed. Pass --height to clip the frame
to a viewport of that many lines.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolve(rootOpts)
			if err != nil {
				return err
			}
			if height < 0 {
				return fmt.Errorf("--height cannot be negative (got %d)", height)
			}
			s := newSample(cfg, surfaceOptions(cfg, height, rootOpts.Color), nil, nil)
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s.surface.Render())
			return err
		},
	}

	cmd.Flags().IntVar(&height, "height", 0, "viewport height in lines (0 prints everything)")

	return cmd
}
