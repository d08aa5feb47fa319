package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	collectorcontracts "github.com/meysamhadeli/aibundle/collector/contracts"
	"github.com/meysamhadeli/aibundle/collector/models"
	"github.com/meysamhadeli/aibundle/constants/lipgloss"
	"github.com/meysamhadeli/aibundle/menu"
	"github.com/meysamhadeli/aibundle/utils"
	"github.com/pterm/pterm"
)

// spinnerCollector shows a spinner on the terminal while the wrapped collector walks the tree.
type spinnerCollector struct {
	next collectorcontracts.IFileTreeCollector
}

func (s *spinnerCollector) Collect(root string) (*models.CollectResult, error) {
	spinner := pterm.DefaultSpinner.WithStyle(pterm.NewStyle(pterm.FgLightBlue)).
		WithSequence("⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏").
		WithDelay(100).WithRemoveWhenDone(true)

	spinnerInstance, _ := spinner.Start("Collecting codebase...")

	result, err := s.next.Collect(root)

	_ = spinnerInstance.Stop()
	fmt.Print("\r")

	return result, err
}

// interactiveCollector decorates the collector with a spinner when stdout is a terminal.
func interactiveCollector(next collectorcontracts.IFileTreeCollector) collectorcontracts.IFileTreeCollector {
	if !utils.IsTerminal(os.Stdout) {
		return next
	}
	return &spinnerCollector{next: next}
}

func handleMenuCommand(ctx context.Context, rootDependencies *RootDependencies) error {
	controller := menu.NewController(os.Stdin, os.Stdout, menu.Dependencies{
		Root:            rootDependencies.Cwd,
		Collector:       interactiveCollector(rootDependencies.Collector),
		Snapshots:       rootDependencies.Snapshots,
		Conversation:    rootDependencies.Conversation,
		Exporter:        rootDependencies.Exporter,
		TokenManagement: rootDependencies.TokenManagement,
		Render:          rootDependencies.Render(os.Stdout),
	})

	err := controller.Run(ctx)
	switch {
	case err == nil, errors.Is(err, menu.ErrInputClosed):
		return nil
	case errors.Is(err, context.Canceled):
		fmt.Println()
		fmt.Println(lipgloss.Yellow.Render("Exiting..."))
		return nil
	default:
		return err
	}
}
