package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/meysamhadeli/aibundle/collector"
	"github.com/meysamhadeli/aibundle/constants/lipgloss"
	"github.com/meysamhadeli/aibundle/utils"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

// resetCacheCmd represents the reset-cache command
var resetCacheCmd = &cobra.Command{
	Use:   "reset-cache",
	Short: "Reset the file content cache used while taking snapshots",
	Long: `The 'reset-cache' command removes every cached file content in the project cache directory.
Use this command to clear corrupted cache or when experiencing cache-related issues.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Parse flags
		force, _ := cmd.Flags().GetBool("force")
		stats, _ := cmd.Flags().GetBool("stats")

		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		defer rootDependencies.Close()

		return handleResetCacheCommand(cmd, rootDependencies, force, stats)
	},
}

func init() {
	// Define command-specific flags
	resetCacheCmd.Flags().BoolP("force", "f", false, "Force cache reset without confirmation")
	resetCacheCmd.Flags().BoolP("stats", "s", false, "Show cache statistics instead of resetting")

	// Add the reset-cache command to the root command
	rootCmd.AddCommand(resetCacheCmd)
}

func handleResetCacheCommand(cmd *cobra.Command, rootDependencies *RootDependencies, force bool, showStats bool) error {
	out := cmd.OutOrStdout()

	cacheManager := rootDependencies.CacheManager
	if cacheManager == nil {
		// the cache may still hold entries from runs where it was enabled
		cacheDir := filepath.Join(rootDependencies.Cwd, rootDependencies.Config.CacheDir)
		if _, err := os.Stat(cacheDir); err != nil {
			fmt.Fprintln(out, lipgloss.Yellow.Render("No cache to reset."))
			return nil
		}

		var err error
		cacheManager, err = collector.NewCacheManager(cacheDir)
		if err != nil {
			return err
		}
	}

	if showStats {
		return printCacheStats(out, cacheManager)
	}

	// Confirm reset (if not forced)
	if !force {
		confirmed, err := utils.ConfirmPrompt(out, "Are you sure you want to reset the entire project cache?", bufio.NewReader(cmd.InOrStdin()))
		if err != nil {
			return err
		}
		if !confirmed {
			fmt.Fprintln(out, lipgloss.Yellow.Render("Cache reset cancelled."))
			return nil
		}
	}

	var spinnerInstance *pterm.SpinnerPrinter
	if utils.IsTerminal(os.Stdout) {
		spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgCyan)).
			WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
			WithDelay(100).WithRemoveWhenDone(true)
		spinnerInstance, _ = spinner.Start("Resetting project cache...")
	}

	deleted, err := cacheManager.ClearCache()

	if spinnerInstance != nil {
		_ = spinnerInstance.Stop()
		fmt.Print("\r")
	}

	if err != nil {
		return fmt.Errorf("failed to reset cache: %w", err)
	}

	fmt.Fprintln(out, lipgloss.Green.Render(fmt.Sprintf("✓ Project cache has been successfully reset! (%d entries removed)", deleted)))
	return nil
}

func printCacheStats(out io.Writer, cacheManager *collector.CacheManager) error {
	report, err := cacheManager.GetCacheStats()
	if err != nil {
		return fmt.Errorf("could not show statistics: %w", err)
	}

	fmt.Fprintln(out, lipgloss.Info.Render("Cache Statistics:"))
	fmt.Fprintf(out, "  Cache Directory: %s\n", report.CacheDir)
	fmt.Fprintf(out, "  Cached Files: %d\n", report.CacheFiles)
	fmt.Fprintf(out, "  Total Size: %.2f MB\n", float64(report.TotalSize)/(1024*1024))
	fmt.Fprintf(out, "  Hit Rate: %.1f%%\n", report.HitRate)
	return nil
}
