package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/meysamhadeli/aibundle/config"
	"github.com/meysamhadeli/aibundle/constants/lipgloss"
	"github.com/spf13/cobra"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the effective configuration to " + config.ConfigName + ".yml",
	Long: `The 'init-config' command writes the configuration currently in effect (defaults, environment
variables and flags included) to a YAML file in the project directory, as a starting point for editing.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		defer rootDependencies.Close()

		path := filepath.Join(rootDependencies.Cwd, config.ConfigName+".yml")
		if err := rootDependencies.Config.WriteYAML(path, force); err != nil {
			if errors.Is(err, config.ErrConfigExists) {
				return fmt.Errorf("%w (use --force to overwrite)", err)
			}
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), lipgloss.Green.Render(fmt.Sprintf("Configuration written to %s", path)))
		return nil
	},
}

func init() {
	initConfigCmd.Flags().BoolP("force", "f", false, "Overwrite an existing configuration file")

	rootCmd.AddCommand(initConfigCmd)
}
