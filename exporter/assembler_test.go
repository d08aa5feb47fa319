package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meysamhadeli/aibundle/collector"
	"github.com/meysamhadeli/aibundle/collector/models"
	"github.com/meysamhadeli/aibundle/conversation"
	conversationmodels "github.com/meysamhadeli/aibundle/conversation/models"
	"github.com/meysamhadeli/aibundle/exporter/contracts"
	"github.com/meysamhadeli/aibundle/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	dir       string
	snapshots *snapshotFixture
	now       time.Time
}

type snapshotFixture struct {
	path string
}

func newFixture(t *testing.T) *fixture {
	dir := t.TempDir()
	return &fixture{
		dir:       dir,
		snapshots: &snapshotFixture{path: filepath.Join(dir, "codebase_snapshot.txt")},
		now:       time.Date(2024, 5, 6, 7, 8, 9, 0, time.Local),
	}
}

func (f *fixture) clock() time.Time {
	return f.now
}

func (f *fixture) assembler(emitMarkers bool) contracts.IExportAssembler {
	log := conversation.NewLog(filepath.Join(f.dir, "ai_conversation.txt"), f.clock)
	store := snapshot.NewStore(f.snapshots.path, emitMarkers)
	return NewAssembler(log, store, f.dir, "ai_export_", f.clock)
}

func (f *fixture) writeSnapshot(t *testing.T, content string) {
	require.NoError(t, os.WriteFile(f.snapshots.path, []byte(content), 0644))
}

func TestSplitSections(t *testing.T) {
	readme, other, found := SplitSections("README FILES:\n\n  readme body \nOTHER FILES:\n\nother body")
	assert.True(t, found)
	assert.Equal(t, "readme body", readme)
	assert.Equal(t, "OTHER FILES:\n\nother body", other)

	readme, other, found = SplitSections("File: a.txt\nContent:\nx\n")
	assert.False(t, found)
	assert.Empty(t, readme)
	assert.Equal(t, "File: a.txt\nContent:\nx\n", other)
}

func TestSplitSections_MarkerTextInsideReadme(t *testing.T) {
	readmeRecord := models.FileRecord{RelativePath: "README.md", Content: "Exports have a section\nOTHER FILES:\nthat lists the rest.\n\nOTHER FILES:\n\nlike this."}.Render()
	otherRecord := models.FileRecord{RelativePath: "main.go", Content: "package main"}.Render()
	content := snapshot.Render(models.Sections{Readme: readmeRecord, Other: otherRecord}, true)

	readme, other, found := SplitSections(content)

	require.True(t, found)
	assert.Equal(t, strings.TrimSpace(readmeRecord), readme)
	assert.Equal(t, "OTHER FILES:\n\n"+otherRecord, other)
}

func TestSplitSections_EmptyReadmeSection(t *testing.T) {
	otherRecord := models.FileRecord{RelativePath: "main.go", Content: "OTHER FILES:\n\n"}.Render()

	readme, other, found := SplitSections(snapshot.Render(models.Sections{Other: otherRecord}, true))

	require.True(t, found)
	assert.Empty(t, readme)
	assert.Equal(t, "OTHER FILES:\n\n"+otherRecord, other)
}

func TestAssemble_NothingRecordedYet(t *testing.T) {
	f := newFixture(t)

	document, err := f.assembler(true).Assemble()
	require.NoError(t, err)

	assert.Equal(t, "CONVERSATION AND CONTEXT:\n\n"+
		"No conversation recorded yet.\n"+
		"\nCODEBASE SNAPSHOT:\n\n"+
		"No codebase snapshot available.\n", document)
}

func TestAssemble_SnapshotWithMarkers(t *testing.T) {
	f := newFixture(t)
	f.writeSnapshot(t, "README FILES:\n\nFile: README.md\nContent:\n# Title\n\nOTHER FILES:\n\nFile: main.go\nContent:\npackage main\n")

	document, err := f.assembler(true).Assemble()
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(document, "\nCODEBASE SNAPSHOT:\n\n"+
		"README FILES:\n\nFile: README.md\nContent:\n# Title\n\n"+
		"OTHER FILES:\n\nFile: main.go\nContent:\npackage main\n"), document)
}

func TestAssemble_SnapshotWithoutMarkers(t *testing.T) {
	f := newFixture(t)
	f.writeSnapshot(t, "File: README.md\nContent:\n# Title\nFile: main.go\nContent:\npackage main\n")

	document, err := f.assembler(false).Assemble()
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(document, "\nCODEBASE SNAPSHOT:\n\n"+
		NoReadmeText+
		"File: README.md\nContent:\n# Title\nFile: main.go\nContent:\npackage main\n"), document)
}

func TestAssemble_MarkersWithoutReadmeFiles(t *testing.T) {
	f := newFixture(t)
	f.writeSnapshot(t, "README FILES:\n\nOTHER FILES:\n\nFile: main.go\nContent:\npackage main\n")

	document, err := f.assembler(true).Assemble()
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(document, NoReadmeText+"OTHER FILES:\n\nFile: main.go\nContent:\npackage main\n"), document)
}

func TestAssemble_IncludesConversation(t *testing.T) {
	f := newFixture(t)
	log := conversation.NewLog(filepath.Join(f.dir, "ai_conversation.txt"), f.clock)
	require.NoError(t, log.Append(conversationmodels.RoleHuman, "hello\n"))

	document, err := f.assembler(true).Assemble()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(document, "CONVERSATION AND CONTEXT:\n\n2024-05-06 07:08:09 - Human:\nhello\n\n\nCODEBASE SNAPSHOT:\n\n"), document)
}

func TestExport_RoundTripKeepsEveryOtherRecord(t *testing.T) {
	f := newFixture(t)
	files := map[string]string{
		"README.md":     "# Title",
		"main.go":       "package main",
		"pkg/util.go":   "package pkg",
		"docs/Readme":   "docs",
		"notes/todo.md": "- ship it",
	}
	for relativePath, content := range files {
		fullPath := filepath.Join(f.dir, filepath.FromSlash(relativePath))
		require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
		require.NoError(t, os.WriteFile(fullPath, []byte(content), 0644))
	}

	result, err := collector.NewFileTreeCollector(collector.Options{
		Exclude: []string{"codebase_snapshot.txt", "ai_conversation.txt"},
	}, nil).Collect(f.dir)
	require.NoError(t, err)
	require.NoError(t, snapshot.NewStore(f.snapshots.path, true).Save(result.Sections))

	path, document, err := f.assembler(true).Export()
	require.NoError(t, err)

	written, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, document, string(written))

	_, other, found := SplitSections(document[strings.Index(document, "CODEBASE SNAPSHOT:"):])
	require.True(t, found)
	for _, relativePath := range []string{"main.go", "pkg/util.go", "notes/todo.md"} {
		assert.Contains(t, other, models.FileRecord{RelativePath: relativePath, Content: files[relativePath]}.Render())
	}
	assert.NotContains(t, other, "File: README.md\n")
	assert.Contains(t, document, "File: docs/Readme\n")
}

func TestExport_FileNaming(t *testing.T) {
	f := newFixture(t)
	assembler := f.assembler(true)

	first, _, err := assembler.Export()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "ai_export_20240506070809.txt"), first)

	// same second: never overwrite
	second, _, err := assembler.Export()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "ai_export_20240506070809_1.txt"), second)

	f.now = f.now.Add(time.Second)
	third, _, err := assembler.Export()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.dir, "ai_export_20240506070810.txt"), third)

	for _, path := range []string{first, second, third} {
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestExport_UnwritableDirectory(t *testing.T) {
	f := newFixture(t)
	log := conversation.NewLog(filepath.Join(f.dir, "ai_conversation.txt"), f.clock)
	store := snapshot.NewStore(f.snapshots.path, true)

	_, _, err := NewAssembler(log, store, filepath.Join(f.dir, "missing"), "ai_export_", f.clock).Export()

	assert.Error(t, err)
}
