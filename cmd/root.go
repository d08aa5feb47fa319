package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/meysamhadeli/aibundle/collector"
	collectorcontracts "github.com/meysamhadeli/aibundle/collector/contracts"
	"github.com/meysamhadeli/aibundle/config"
	"github.com/meysamhadeli/aibundle/constants/lipgloss"
	"github.com/meysamhadeli/aibundle/conversation"
	conversationcontracts "github.com/meysamhadeli/aibundle/conversation/contracts"
	"github.com/meysamhadeli/aibundle/exporter"
	exportercontracts "github.com/meysamhadeli/aibundle/exporter/contracts"
	"github.com/meysamhadeli/aibundle/logging"
	"github.com/meysamhadeli/aibundle/snapshot"
	snapshotcontracts "github.com/meysamhadeli/aibundle/snapshot/contracts"
	"github.com/meysamhadeli/aibundle/token_management"
	tokencontracts "github.com/meysamhadeli/aibundle/token_management/contracts"
	"github.com/meysamhadeli/aibundle/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// workDir is the project directory set via --dir; empty means the current directory.
var workDir string

type RootDependencies struct {
	Cwd             string
	Config          *config.Config
	CacheManager    *collector.CacheManager
	Collector       collectorcontracts.IFileTreeCollector
	Snapshots       snapshotcontracts.ISnapshotStore
	Conversation    conversationcontracts.IConversationLog
	Exporter        exportercontracts.IExportAssembler
	TokenManagement tokencontracts.ITokenManagement
	closeLogger     func() error
}

var rootCmd = &cobra.Command{
	Use:   "aibundle",
	Short: "Bundle a codebase snapshot and a conversation log for an AI chat.",
	Long: `aibundle takes a plain text snapshot of the files under the working directory, keeps a
timestamped log of the conversation with an AI assistant, and exports both into a single file
ready to paste into a chat interface. Run without a subcommand to use the interactive menu.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootDependencies, err := handleRootCommand(cmd)
		if err != nil {
			return err
		}
		defer rootDependencies.Close()

		return handleMenuCommand(cmd.Context(), rootDependencies)
	},
}

// Execute runs the root command with a context cancelled by SIGINT or SIGTERM.
func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := rootCmd.ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, lipgloss.Red.Render(err.Error()))
		os.Exit(1)
	}
}

func init() {
	config.InitFlags(rootCmd)
	rootCmd.PersistentFlags().StringVarP(&workDir, "dir", "d", "", "Project directory to snapshot and to keep the conversation and exports in (defaults to the current directory).")
}

func handleRootCommand(cmd *cobra.Command) (*RootDependencies, error) {
	cwd, err := resolveWorkDir()
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfigs(cmd.Root(), cwd)
	if err != nil {
		return nil, err
	}

	closeLogger := logging.InitLogger(cfg.Logging)

	ignorePatterns, err := utils.GetIgnorePatterns(cwd, cfg.Files.IgnoreFile)
	if err != nil {
		logrus.Warnf("Failed to load ignore file, continuing without it: %v", err)
	}

	var cacheManager *collector.CacheManager
	if cfg.EnableCache {
		cacheManager, err = collector.NewCacheManager(filepath.Join(cwd, cfg.CacheDir))
		if err != nil {
			logrus.Warnf("Failed to initialize cache, continuing without it: %v", err)
			cacheManager = nil
		}
	}

	excludePatterns := append([]string{}, cfg.Snapshot.ExcludePatterns...)
	if cfg.Files.ExportPrefix != "" {
		excludePatterns = append(excludePatterns, cfg.Files.ExportPrefix+"*.txt")
	}

	fileCollector := collector.NewFileTreeCollector(collector.Options{
		Exclude:           cfg.Exclusions(cwd),
		ExcludePatterns:   excludePatterns,
		IgnorePatterns:    ignorePatterns,
		UseDefaultIgnores: cfg.Snapshot.UseDefaultIgnores,
		MaxFileSize:       cfg.Snapshot.MaxFileSize,
	}, cacheManager)

	snapshots := snapshot.NewStore(resolvePath(cwd, cfg.Files.SnapshotFile), cfg.Snapshot.EmitMarkers)
	conversationLog := conversation.NewLog(resolvePath(cwd, cfg.Files.ConversationFile), nil)

	logrus.WithFields(logrus.Fields{
		"cwd":          cwd,
		"snapshot":     snapshots.Path(),
		"conversation": conversationLog.Path(),
		"cache":        cacheManager != nil,
	}).Debug("Dependencies initialized")

	return &RootDependencies{
		Cwd:             cwd,
		Config:          cfg,
		CacheManager:    cacheManager,
		Collector:       fileCollector,
		Snapshots:       snapshots,
		Conversation:    conversationLog,
		Exporter:        exporter.NewAssembler(conversationLog, snapshots, cwd, cfg.Files.ExportPrefix, nil),
		TokenManagement: token_management.NewTokenManager(),
		closeLogger:     closeLogger,
	}, nil
}

// Close releases what handleRootCommand opened.
func (d *RootDependencies) Close() {
	if d.closeLogger != nil {
		_ = d.closeLogger()
	}
}

// Render returns the printer for snapshot and conversation dumps: highlighted on a terminal, raw otherwise.
func (d *RootDependencies) Render(out *os.File) func(w io.Writer, text string) error {
	if !d.Config.Highlight || !utils.IsTerminal(out) {
		return nil
	}
	return func(w io.Writer, text string) error {
		return utils.HighlightDocument(w, text, d.Config.Theme)
	}
}

func resolveWorkDir() (string, error) {
	dir := workDir
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current working directory: %w", err)
		}
		dir = cwd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve directory %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to access directory %s: %w", abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%s is not a directory", abs)
	}

	return abs, nil
}

func resolvePath(cwd string, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}

// printDocument writes text through render, or as is when render is nil.
func printDocument(w io.Writer, render func(io.Writer, string) error, text string) error {
	if render != nil {
		return render(w, text)
	}
	_, err := io.WriteString(w, text)
	return err
}
