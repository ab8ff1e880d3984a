package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hostel-manager/room-designer/internal/designer"
)

// ErrPlacementProblems is returned by validate --strict when an element
// overlaps another or extends beyond the room.
var ErrPlacementProblems = errors.New("layout has placement problems")

func newValidateCmd(opts *options) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <file>",
		Short: "Print the warnings of a layout",
		Long: `Load a layout and print its soft warnings: room limits, elements beyond
the walls, overlaps and sleeping capacity.

With --strict the command fails when any element overlaps another or
extends beyond the room.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, opts, args[0], strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on overlaps and boundary violations")

	return cmd
}

func runValidate(cmd *cobra.Command, opts *options, path string, strict bool) error {
	s, err := opts.openSession(path)
	if err != nil {
		return err
	}
	dims, ok := s.Dimensions()
	if !ok {
		return fmt.Errorf("%s: %w", path, designer.ErrSetupRequired)
	}

	out := cmd.OutOrStdout()
	capacity := s.Capacity()
	fmt.Fprintf(out, "Room: %gm x %gm x %gm\n", dims.Length, dims.Width, dims.Height)
	if capacity.Limit > 0 {
		fmt.Fprintf(out, "Elements: %d, sleeping capacity %d of %d\n", len(s.Elements()), capacity.Used, capacity.Limit)
	} else {
		fmt.Fprintf(out, "Elements: %d, sleeping capacity %d\n", len(s.Elements()), capacity.Used)
	}

	warnings := s.Warnings()
	if len(warnings) == 0 {
		fmt.Fprintln(out, "No warnings")
	}
	for _, w := range warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}

	if !strict {
		return nil
	}
	outside, overlaps := designer.PlacementProblems(dims, s.Elements())
	if outside+overlaps > 0 {
		return fmt.Errorf("%w: %d outside the room, %d overlapping", ErrPlacementProblems, outside, overlaps)
	}
	return nil
}
