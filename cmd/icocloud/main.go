// icocloud converts PLY point clouds into OBJ meshes with one small
// icosphere per point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Faultbox/icocloud/internal/config"
	"github.com/Faultbox/icocloud/internal/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "icocloud",
		Short: "Convert PLY point clouds to OBJ icosphere meshes",
		Long: `icocloud - PLY point cloud to OBJ mesh converter

Every point of the cloud becomes a 12-vertex, 20-face icosphere, so scans
can be viewed in tools that only render meshes.

Examples:
  icocloud convert scan.ply
  icocloud convert --lod 2 --axis z_up_to_y_up scan.ply
  icocloud info scan.ply
  icocloud list ./scans
  icocloud config init`,
		SilenceUsage: true,
	}
	config.BindGlobalFlags(root.PersistentFlags())

	root.AddCommand(
		newConvertCmd(),
		newInfoCmd(),
		newListCmd(),
		newConfigCmd(),
	)
	return root
}

// loadConfig loads the layered config for cmd and starts the logger.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile, isTerminal(os.Stderr)); err != nil {
		return nil, fmt.Errorf("logging: %w", err)
	}
	return cfg, nil
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
