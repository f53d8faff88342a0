package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list [dir]",
		Aliases: []string{"ls"},
		Short:   "List PLY files in a directory",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}
			files, err := findPLY(dir)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(files) == 0 {
				fmt.Fprintf(out, "No .ply files in %s\n", dir)
				return nil
			}
			for i, f := range files {
				size := ""
				if info, err := os.Stat(f); err == nil {
					size = humanize.Bytes(uint64(info.Size()))
				}
				fmt.Fprintf(out, "%3d. %-40s %10s\n", i+1, filepath.Base(f), size)
			}
			return nil
		},
	}
}

// findPLY returns the .ply files in dir, matched case-insensitively and
// sorted by name.
func findPLY(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".ply") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
