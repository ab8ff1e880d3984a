// Package cli implements layoutctl, the offline tool for checking, drawing
// and converting room layout files.
package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hostel-manager/room-designer/internal/designer"
	"github.com/hostel-manager/room-designer/internal/models"
)

// options holds the global flags.
type options struct {
	verbose  bool
	bedCount int
}

// NewRootCommand builds the layoutctl command tree.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "layoutctl",
		Short: "Inspect and convert room layout files",
		Long: `layoutctl works on room layout documents without a running service.

A file may hold a saved layout document or room data, including the
legacy bedPositions format.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().IntVar(&opts.bedCount, "bed-count", -1, "Override the room bed count (0 disables the capacity check)")

	rootCmd.AddCommand(newValidateCmd(opts))
	rootCmd.AddCommand(newRenderCmd(opts))
	rootCmd.AddCommand(newNormalizeCmd(opts))

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

func (o *options) logger() *zap.Logger {
	if !o.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// loadRoomData reads a layout or room data file.
func loadRoomData(path string) (models.RoomData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.RoomData{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var room models.RoomData
	if err := json.Unmarshal(data, &room); err != nil {
		return models.RoomData{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return room, nil
}

// openSession loads path into a designer session.
func (o *options) openSession(path string) (*designer.Session, error) {
	room, err := loadRoomData(path)
	if err != nil {
		return nil, err
	}
	if o.bedCount >= 0 {
		room.BedCount = o.bedCount
	}

	logger := o.logger()
	s := designer.NewSession(room, designer.WithLogger(logger.With(zap.String("file", path))))
	return s, nil
}
