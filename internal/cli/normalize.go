package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newNormalizeCmd(opts *options) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "normalize <file>",
		Short: "Convert a file to the native layout document",
		Long: `Load a layout or room data file, converting legacy bedPositions into
single beds, and print the native layout document with its warnings.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.openSession(args[0])
			if err != nil {
				return err
			}

			layout := s.Layout()
			layout.Normalize()
			data, err := json.MarshalIndent(layout, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode layout: %w", err)
			}

			if output == "" {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return err
			}
			if err := os.WriteFile(output, append(data, '\n'), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file path (default: stdout)")

	return cmd
}
