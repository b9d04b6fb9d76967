package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nibzard/taskclaw/internal/config"
	"github.com/nibzard/taskclaw/internal/storage"
)

func (a *app) newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := cfg.Encode()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "# config file: %s\n", cfg.ConfigFile)
			_, err = w.Write(out)
			return err
		},
	}
	cmd.AddCommand(a.newConfigInitCmd(), a.newConfigSchemaCmd())
	return cmd
}

func (a *app) newConfigInitCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented example config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path(cmd.Flags())
			if err != nil {
				return err
			}
			if err := config.WriteExample(path, force); err != nil {
				if errors.Is(err, config.ErrConfigExists) {
					return userError("%v (use --force to overwrite)", err)
				}
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote config to %s\n", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func (a *app) newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema every task record must satisfy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), storage.TaskSchema())
			return err
		},
	}
}
