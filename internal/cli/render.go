package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hostel-manager/room-designer/internal/render"
)

func newRenderCmd(opts *options) *cobra.Command {
	var (
		output   string
		scale    float64
		showGrid bool
		gridSize float64
	)

	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "Draw a layout as SVG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(args[0])
			if err != nil {
				return err
			}
			if scale <= 0 {
				return fmt.Errorf("scale must be positive, got %g", scale)
			}

			svg, err := render.NewRenderer().Render(s.Layout(), render.Options{
				Scale:    scale,
				ShowGrid: showGrid,
				GridSize: gridSize,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), svg)
				return err
			}
			if err := os.WriteFile(output, []byte(svg+"\n"), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().Float64Var(&scale, "scale", render.DefaultScale, "Pixels per meter")
	cmd.Flags().BoolVar(&showGrid, "grid", false, "Draw the snapping grid")
	cmd.Flags().Float64Var(&gridSize, "grid-size", 0.5, "Grid spacing in meters")

	return cmd
}
