package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/meysamhadeli/aibundle/constants/lipgloss"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the conversation and the codebase snapshot into a new file for the AI.",
	Long: `The 'export' command merges the conversation log and the latest snapshot into a new
<prefix><timestamp>.txt file. An existing export is never overwritten; a numeric suffix is added
when two exports share the same second.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		printDocumentFlag, _ := cmd.Flags().GetBool("print")

		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		defer rootDependencies.Close()

		return handleExportCommand(cmd.OutOrStdout(), rootDependencies, printDocumentFlag)
	},
}

func init() {
	exportCmd.Flags().BoolP("print", "p", false, "Also print the exported document to standard output")

	rootCmd.AddCommand(exportCmd)
}

func handleExportCommand(out io.Writer, rootDependencies *RootDependencies, printDocument bool) error {
	path, document, err := rootDependencies.Exporter.Export()
	if err != nil {
		return err
	}

	if printDocument {
		if _, err := io.WriteString(out, document); err != nil {
			return err
		}
	}

	name := path
	if relative, err := filepath.Rel(rootDependencies.Cwd, path); err == nil {
		name = filepath.ToSlash(relative)
	}
	fmt.Fprintln(out, lipgloss.Green.Render(fmt.Sprintf("Exported conversation and codebase to %s", name)))

	tokens := rootDependencies.TokenManagement.CountTokens(document)
	rootDependencies.TokenManagement.UsedTokens(tokens)
	rootDependencies.TokenManagement.DisplayTokens(out, tokens)

	return nil
}
