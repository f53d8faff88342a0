package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Faultbox/icocloud/internal/inspect"
	"github.com/Faultbox/icocloud/internal/pipeline"
)

func newInfoCmd() *cobra.Command {
	var (
		axis       string
		headerOnly bool
		seed       uint64
	)
	cmd := &cobra.Command{
		Use:   "info <file.ply>",
		Short: "Show PLY header, bounds and height distribution",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd); err != nil {
				return err
			}
			preset, err := pipeline.ParseAxisPreset(axis)
			if err != nil {
				return err
			}
			s, err := inspect.ScanFile(cmd.Context(), args[0], inspect.Options{
				Axis:       preset,
				HeaderOnly: headerOnly,
				Seed:       seed,
			})
			if err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), args[0], s)
			return nil
		},
	}
	cmd.Flags().StringVar(&axis, "axis", string(pipeline.AxisIdentity), "Axis preset applied before statistics")
	cmd.Flags().BoolVar(&headerOnly, "header-only", false, "Only read the header")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "Seed for the statistics sample, 0 for random")
	return cmd
}

func printSummary(w io.Writer, path string, s *inspect.Summary) {
	h := s.Header
	fmt.Fprintf(w, "File:     %s\n", path)
	fmt.Fprintf(w, "Format:   %s %s\n", h.Format, h.Version)
	fmt.Fprintf(w, "Vertices: %s\n", humanize.Comma(int64(h.Count)))
	if h.Format.IsBinary() {
		fmt.Fprintf(w, "Stride:   %d bytes (body %s)\n", h.Stride, humanize.Bytes(uint64(h.BodySize())))
	}
	for _, c := range h.Comments {
		fmt.Fprintf(w, "Comment:  %s\n", c)
	}
	for _, o := range h.ObjInfo {
		fmt.Fprintf(w, "Info:     %s\n", o)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Elements:")
	for _, e := range h.Elements {
		fmt.Fprintf(w, "  %-12s %s\n", e.Name, humanize.Comma(int64(e.Count)))
		for _, p := range e.Properties {
			if p.List {
				fmt.Fprintf(w, "    list %s %s %s\n", p.CountType, p.Type, p.Name)
				continue
			}
			fmt.Fprintf(w, "    %-8s %s\n", p.Type, p.Name)
		}
	}

	if s.Points == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Bounds:   min %s\n", fmtVec(s.Bounds.Min.X, s.Bounds.Min.Y, s.Bounds.Min.Z))
	fmt.Fprintf(w, "          max %s\n", fmtVec(s.Bounds.Max.X, s.Bounds.Max.Y, s.Bounds.Max.Z))
	size := s.Bounds.Size()
	fmt.Fprintf(w, "          size %s\n", fmtVec(size.X, size.Y, size.Z))
	fmt.Fprintf(w, "Mean:     %s\n", fmtVec(s.Mean.X, s.Mean.Y, s.Mean.Z))
	fmt.Fprintf(w, "StdDev:   %s\n", fmtVec(s.StdDev.X, s.StdDev.Y, s.StdDev.Z))
	if s.Sampled < s.Points {
		fmt.Fprintf(w, "          (estimated from %s of %s points)\n",
			humanize.Comma(int64(s.Sampled)), humanize.Comma(int64(s.Points)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Height (Y) quantiles:")
	var sb strings.Builder
	for _, q := range s.Quantiles {
		fmt.Fprintf(&sb, "  p%-3s %s\n", humanize.Ftoa(q.P*100), humanize.Ftoa(q.Value))
	}
	fmt.Fprint(w, sb.String())
}

func fmtVec(x, y, z float64) string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", x, y, z)
}
