package cmd

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/meysamhadeli/aibundle/conversation/models"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDependencies(t *testing.T) *RootDependencies {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Project"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main"), 0644))

	workDir = dir
	t.Cleanup(func() { workDir = "" })

	rootDependencies, err := handleRootCommand(rootCmd)
	require.NoError(t, err)
	t.Cleanup(rootDependencies.Close)

	return rootDependencies
}

func newTestCommand(input string) (*cobra.Command, *strings.Builder) {
	out := &strings.Builder{}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(out)
	cmd.SetIn(strings.NewReader(input))
	return cmd, out
}

func TestHandleRootCommand_Defaults(t *testing.T) {
	rootDependencies := newTestDependencies(t)

	assert.Equal(t, filepath.Join(rootDependencies.Cwd, "codebase_snapshot.txt"), rootDependencies.Snapshots.Path())
	assert.Equal(t, filepath.Join(rootDependencies.Cwd, "ai_conversation.txt"), rootDependencies.Conversation.Path())
	assert.Nil(t, rootDependencies.CacheManager)
}

func TestResolveWorkDir_RejectsFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	workDir = file
	defer func() { workDir = "" }()

	_, err := resolveWorkDir()
	assert.Error(t, err)
}

func TestSnapshotAddShowExport(t *testing.T) {
	rootDependencies := newTestDependencies(t)

	cmd, out := newTestCommand("")
	require.NoError(t, handleSnapshotCommand(cmd, rootDependencies))
	assert.Contains(t, out.String(), "Codebase snapshot saved to codebase_snapshot.txt")
	assert.Contains(t, out.String(), "2 files (1 README)")

	cmd, out = newTestCommand("")
	require.NoError(t, handleAddCommand(cmd, rootDependencies, models.RoleHuman, "what does main do?", true))
	assert.Contains(t, out.String(), "Message added to the conversation.")
	assert.Contains(t, out.String(), "The conversation has 1 messages.")

	cmd, out = newTestCommand("it declares\nthe package\nEOF\nignored\n")
	require.NoError(t, handleAddCommand(cmd, rootDependencies, models.RoleAI, "", false))
	assert.Contains(t, out.String(), "The conversation has 2 messages.")

	entries, err := rootDependencies.Conversation.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "what does main do?\n", entries[0].Body)
	assert.Equal(t, "it declares\nthe package\n", entries[1].Body)

	cmd, out = newTestCommand("")
	require.NoError(t, handleShowCommand(cmd, rootDependencies, "snapshot"))
	assert.True(t, strings.HasPrefix(out.String(), "README FILES:\n\nFile: README.md\n"))

	cmd, out = newTestCommand("")
	require.NoError(t, handleShowCommand(cmd, rootDependencies, "conversation"))
	assert.Contains(t, out.String(), " - Ai:\nit declares\nthe package\n")

	_, out = newTestCommand("")
	require.NoError(t, handleExportCommand(out, rootDependencies, false))
	assert.Contains(t, out.String(), "Exported conversation and codebase to ai_export_")
	assert.Contains(t, out.String(), "Estimated Tokens:")

	matches, err := filepath.Glob(filepath.Join(rootDependencies.Cwd, "ai_export_*.txt"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	// a new snapshot never bundles earlier exports
	cmd, out = newTestCommand("")
	require.NoError(t, handleSnapshotCommand(cmd, rootDependencies))
	assert.Contains(t, out.String(), "2 files (1 README)")
}

func TestShow_NothingRecordedYet(t *testing.T) {
	rootDependencies := newTestDependencies(t)

	cmd, out := newTestCommand("")
	require.NoError(t, handleShowCommand(cmd, rootDependencies, "snapshot"))
	require.NoError(t, handleShowCommand(cmd, rootDependencies, "conversation"))

	assert.Contains(t, out.String(), "No codebase snapshot available. Take a snapshot first.")
	assert.Contains(t, out.String(), "No conversation recorded yet.")
}

func TestExport_PrintsDocument(t *testing.T) {
	rootDependencies := newTestDependencies(t)

	_, out := newTestCommand("")
	require.NoError(t, handleExportCommand(out, rootDependencies, true))

	assert.True(t, strings.HasPrefix(out.String(), "CONVERSATION AND CONTEXT:\n\nNo conversation recorded yet.\n"))
	assert.Contains(t, out.String(), "No codebase snapshot available.\n")
}

func TestResetCache_NoCache(t *testing.T) {
	rootDependencies := newTestDependencies(t)

	cmd, out := newTestCommand("")
	require.NoError(t, handleResetCacheCommand(cmd, rootDependencies, true, false))

	assert.Contains(t, out.String(), "No cache to reset.")
}

func TestResetCache_ConfirmAndStats(t *testing.T) {
	rootDependencies := newTestDependencies(t)
	require.NoError(t, os.MkdirAll(filepath.Join(rootDependencies.Cwd, rootDependencies.Config.CacheDir), 0755))

	cmd, out := newTestCommand("")
	require.NoError(t, handleResetCacheCommand(cmd, rootDependencies, false, true))
	assert.Contains(t, out.String(), "Cache Statistics:")
	assert.Contains(t, out.String(), "Cached Files: 0")

	cmd, out = newTestCommand("n\n")
	require.NoError(t, handleResetCacheCommand(cmd, rootDependencies, false, false))
	assert.Contains(t, out.String(), "Cache reset cancelled.")

	cmd, out = newTestCommand("y\n")
	require.NoError(t, handleResetCacheCommand(cmd, rootDependencies, false, false))
	assert.Contains(t, out.String(), "Project cache has been successfully reset!")
}

func TestSnapshot_AbsoluteSnapshotFileIsNotBundled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.go"), []byte("package main"), 0644))
	t.Setenv("AIBUNDLE_SNAPSHOT_FILE", filepath.Join(dir, "snap.txt"))

	workDir = dir
	t.Cleanup(func() { workDir = "" })

	rootDependencies, err := handleRootCommand(rootCmd)
	require.NoError(t, err)
	defer rootDependencies.Close()

	for i := 0; i < 2; i++ {
		cmd, _ := newTestCommand("")
		require.NoError(t, handleSnapshotCommand(cmd, rootDependencies))
	}

	content, err := os.ReadFile(filepath.Join(dir, "snap.txt"))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "File: snap.txt\n")
	assert.Contains(t, string(content), "File: main.go\n")
}
