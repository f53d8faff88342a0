package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/Faultbox/icocloud/internal/config"
	"github.com/Faultbox/icocloud/internal/logger"
	"github.com/Faultbox/icocloud/internal/pipeline"
)

func newConvertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert [file.ply...]",
		Short: "Convert PLY files to OBJ icosphere meshes",
		Long: `Convert each PLY file into <name>_LOD<n>_ico.obj.

With no arguments the single .ply file in the current directory is used.`,
		RunE: runConvert,
	}
	config.BindConversionFlags(cmd.Flags())
	return cmd
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	pcfg, err := cfg.ToPipeline()
	if err != nil {
		return err
	}

	inputs := args
	if len(inputs) == 0 {
		in, err := discoverInput(".")
		if err != nil {
			return err
		}
		inputs = []string{in}
	}

	conv, err := pipeline.NewConverter(pcfg, logger.Log)
	if err != nil {
		return err
	}
	conv.Overwrite = cfg.Output.Overwrite
	conv.Comments = cfg.Output.Comments

	if cfg.Output.Dir != "" {
		if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	for _, in := range inputs {
		outPath := cfg.OutputPath(in)
		log := logger.Log.With(zap.String("input", in))
		log.Info("converting",
			zap.String("output", outPath),
			zap.Float64("keep_fraction", pcfg.KeepFraction),
			zap.Float64("sphere_radius", pcfg.SphereRadius),
		)
		conv.Progress = progressLogger(log)

		stats, err := conv.ConvertFile(cmd.Context(), in, outPath)
		if err != nil {
			return fmt.Errorf("%s: %w", in, err)
		}

		size := "?"
		if info, err := os.Stat(outPath); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		fmt.Fprintf(out, "%s -> %s\n", in, outPath)
		fmt.Fprintf(out, "  points:  %s decoded, %s cropped, %s sampled out\n",
			humanize.Comma(int64(stats.Decoded)),
			humanize.Comma(int64(stats.Cropped)),
			humanize.Comma(int64(stats.Sampled)))
		fmt.Fprintf(out, "  spheres: %s (%s vertices, %s faces)\n",
			humanize.Comma(int64(stats.Instances)),
			humanize.Comma(int64(stats.Vertices)),
			humanize.Comma(int64(stats.Faces)))
		fmt.Fprintf(out, "  size:    %s in %s\n", size, stats.Elapsed.Round(time.Millisecond))
	}
	return nil
}

// progressLogger reports progress at Info level in 10% steps.
func progressLogger(log *zap.Logger) pipeline.ProgressFunc {
	last := -1
	return func(decoded, total int) {
		if total <= 0 {
			return
		}
		pct := decoded * 100 / total
		if step := pct / 10; step > last {
			last = step
			log.Info("progress",
				zap.String("points", humanize.Comma(int64(decoded))),
				zap.Int("percent", pct),
			)
		}
	}
}

// discoverInput returns the only PLY file in dir.
func discoverInput(dir string) (string, error) {
	files, err := findPLY(dir)
	if err != nil {
		return "", err
	}
	switch len(files) {
	case 0:
		return "", fmt.Errorf("no .ply files in %s", dir)
	case 1:
		return files[0], nil
	default:
		names := make([]string, len(files))
		for i, f := range files {
			names[i] = filepath.Base(f)
		}
		return "", fmt.Errorf("%d .ply files in %s, name one: %s", len(files), dir, strings.Join(names, ", "))
	}
}
