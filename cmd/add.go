package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/meysamhadeli/aibundle/constants/lipgloss"
	"github.com/meysamhadeli/aibundle/conversation/models"
	"github.com/meysamhadeli/aibundle/utils"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add human|ai",
	Short: "Append a human message or an AI response to the conversation.",
	Long: `The 'add' command appends one timestamped entry to the conversation log. The text comes from
--message, or from standard input up to a line containing only EOF (or the end of input).`,
	ValidArgs: []string{string(models.RoleHuman), string(models.RoleAI)},
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := models.ParseRole(args[0])
		if err != nil {
			return err
		}

		message, _ := cmd.Flags().GetString("message")
		hasMessage := cmd.Flags().Changed("message")

		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		defer rootDependencies.Close()

		return handleAddCommand(cmd, rootDependencies, role, message, hasMessage)
	},
}

func init() {
	addCmd.Flags().StringP("message", "m", "", "Message text; when omitted it is read from standard input until a line containing EOF")

	rootCmd.AddCommand(addCmd)
}

func handleAddCommand(cmd *cobra.Command, rootDependencies *RootDependencies, role models.Role, message string, hasMessage bool) error {
	out := cmd.OutOrStdout()

	if !hasMessage {
		if utils.IsTerminal(os.Stdin) {
			prompt := "Enter your message: "
			if role == models.RoleAI {
				prompt = "Enter AI's response: "
			}
			fmt.Fprint(out, lipgloss.BlueSky.Render(prompt))
		}

		var err error
		message, err = rootDependencies.Conversation.ReadMessage(cmd.Context(), bufio.NewReader(cmd.InOrStdin()))
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
	}

	if err := rootDependencies.Conversation.Append(role, message); err != nil {
		return err
	}

	fmt.Fprintln(out, lipgloss.Green.Render("Message added to the conversation."))

	if entries, err := rootDependencies.Conversation.Entries(); err == nil {
		fmt.Fprintln(out, lipgloss.Gray.Render(fmt.Sprintf("The conversation has %d messages.", len(entries))))
	}

	return nil
}
