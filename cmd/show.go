package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/meysamhadeli/aibundle/constants/lipgloss"
	"github.com/meysamhadeli/aibundle/conversation"
	"github.com/meysamhadeli/aibundle/snapshot"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show snapshot|conversation",
	Short: "Print the latest codebase snapshot or the conversation log.",
	Long: `The 'show' command prints the stored snapshot or conversation. On a terminal the snapshot is
highlighted with the configured theme unless highlighting is turned off.`,
	ValidArgs: []string{"snapshot", "conversation"},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		defer rootDependencies.Close()

		return handleShowCommand(cmd, rootDependencies, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func handleShowCommand(cmd *cobra.Command, rootDependencies *RootDependencies, what string) error {
	out := cmd.OutOrStdout()

	var content string
	var err error

	switch what {
	case "snapshot":
		content, err = rootDependencies.Snapshots.Load()
		if errors.Is(err, snapshot.ErrNotFound) {
			fmt.Fprintln(out, lipgloss.Yellow.Render("No codebase snapshot available. Take a snapshot first."))
			return nil
		}
	case "conversation":
		content, err = rootDependencies.Conversation.ReadAll()
		if errors.Is(err, conversation.ErrNotFound) {
			fmt.Fprintln(out, lipgloss.Yellow.Render("No conversation recorded yet."))
			return nil
		}
	default:
		return fmt.Errorf("unknown target %q", what)
	}

	if err != nil {
		return err
	}

	return printDocument(out, rootDependencies.Render(os.Stdout), content)
}
