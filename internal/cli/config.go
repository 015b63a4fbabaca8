package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/idilsaglam/todoapp/internal/config"
	"github.com/idilsaglam/todoapp/internal/ui"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create or inspect the config file",
		Args:  exactArgs(0, "todoapp config <init|show>"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return usagef("usage: todoapp config <init|show>")
		},
	}

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented default config",
		Args:  exactArgs(0, "todoapp config init [--force]"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString(FlagConfig)
			force, _ := cmd.Flags().GetBool("force")
			written, err := config.Init(path, force)
			if err != nil {
				return err
			}
			ui.OK("wrote " + written)
			return nil
		},
	}
	initCmd.Flags().Bool("force", false, "overwrite an existing file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective config",
		Args:  exactArgs(0, "todoapp config show"),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString(FlagConfig)
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			out, err := cfg.Redacted()
			if err != nil {
				return err
			}
			src := cfg.Path
			if src == "" {
				src = "(defaults)"
			}
			fmt.Println(ui.Current().Muted.Render("# " + src))
			fmt.Print(out)
			return nil
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}
