package cmd

import (
	"fmt"

	"github.com/meysamhadeli/aibundle/constants/lipgloss"
	"github.com/spf13/cobra"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Take a snapshot of the codebase without opening the menu.",
	Long: `The 'snapshot' command walks the project directory and writes every file, README files first,
into the snapshot file. The previous snapshot is overwritten. Entries that cannot be read are skipped
and listed as warnings.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		defer rootDependencies.Close()

		return handleSnapshotCommand(cmd, rootDependencies)
	},
}

func init() {
	rootCmd.AddCommand(snapshotCmd)
}

func handleSnapshotCommand(cmd *cobra.Command, rootDependencies *RootDependencies) error {
	out := cmd.OutOrStdout()

	result, err := interactiveCollector(rootDependencies.Collector).Collect(rootDependencies.Cwd)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}

	if err := rootDependencies.Snapshots.Save(result.Sections); err != nil {
		return err
	}

	fmt.Fprintln(out, lipgloss.Green.Render(fmt.Sprintf("Codebase snapshot saved to %s", rootDependencies.Config.Files.SnapshotFile)))
	fmt.Fprintln(out, lipgloss.Gray.Render(fmt.Sprintf("%d files (%d README)", len(result.Files), result.ReadmeCount())))

	for _, warning := range result.Warnings {
		fmt.Fprintln(out, lipgloss.Yellow.Render(fmt.Sprintf("Skipped %s", warning)))
	}

	return nil
}
