package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Faultbox/icocloud/internal/config"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var (
		force     bool
		printOnly bool
	)
	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a config file with the default settings",
		Long: "Write a config file with the default settings.\n\n" +
			"Without a path the per-user file is written: " + config.DefaultPath(),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if printOnly {
				data, err := cfg.Marshal()
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			path := config.DefaultPath()
			if len(args) > 0 {
				path = args[0]
			}
			write := cfg.WriteNew
			if force {
				write = cfg.SaveTo
			}
			if err := write(path); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Replace an existing file")
	initCmd.Flags().BoolVar(&printOnly, "print", false, "Print the defaults instead of writing a file")

	cmd.AddCommand(initCmd)
	return cmd
}
