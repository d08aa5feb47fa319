package exporter

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/meysamhadeli/aibundle/collector/models"
	"github.com/meysamhadeli/aibundle/conversation"
	conversationcontracts "github.com/meysamhadeli/aibundle/conversation/contracts"
	"github.com/meysamhadeli/aibundle/exporter/contracts"
	"github.com/meysamhadeli/aibundle/snapshot"
	snapshotcontracts "github.com/meysamhadeli/aibundle/snapshot/contracts"
)

const (
	FileTimestampLayout = "20060102150405"

	NoConversationText = "No conversation recorded yet.\n"
	NoSnapshotText     = "No codebase snapshot available.\n"
	NoReadmeText       = "No README files found in the project.\n\n"

	maxCollisionSuffix = 1000
)

var (
	// recordSectionPattern matches the layout the snapshot store writes. The OTHER FILES: marker only
	// counts directly after the README marker or after a complete record.
	recordSectionPattern = regexp.MustCompile(`(?s)^` + regexp.QuoteMeta(snapshot.ReadmeMarker) + `\n\n` +
		`((?:File: .*?\n` + regexp.QuoteMeta(models.RecordSeparator) + `\n\n)*?)` +
		regexp.QuoteMeta(snapshot.OtherMarker) + `\n\n`)
	// sectionPattern is the loose form, used for snapshots written by hand.
	sectionPattern = regexp.MustCompile(`(?s)` + regexp.QuoteMeta(snapshot.ReadmeMarker) + `(.*?)` + regexp.QuoteMeta(snapshot.OtherMarker))
)

// Assembler merges the conversation log and the latest snapshot into export documents.
type Assembler struct {
	conversationLog conversationcontracts.IConversationLog
	snapshots       snapshotcontracts.ISnapshotStore
	dir             string
	prefix          string
	clock           func() time.Time
}

// NewAssembler writes exports into dir as <prefix><YYYYMMDDHHMMSS>.txt. A nil clock means time.Now.
func NewAssembler(conversationLog conversationcontracts.IConversationLog, snapshots snapshotcontracts.ISnapshotStore, dir string, prefix string, clock func() time.Time) contracts.IExportAssembler {
	if clock == nil {
		clock = time.Now
	}
	return &Assembler{
		conversationLog: conversationLog,
		snapshots:       snapshots,
		dir:             dir,
		prefix:          prefix,
		clock:           clock,
	}
}

// SplitSections looks for the README FILES: ... OTHER FILES: region. When it is present the README part is
// returned trimmed and the other part runs from the OTHER FILES: marker to the end; otherwise the whole text
// is the other part and found is false.
func SplitSections(content string) (readme string, other string, found bool) {
	match := recordSectionPattern.FindStringSubmatchIndex(content)
	if match == nil {
		match = sectionPattern.FindStringSubmatchIndex(content)
	}
	if match == nil {
		return "", content, false
	}

	readme = strings.TrimSpace(content[match[2]:match[3]])
	other = content[match[3]:]
	return readme, other, true
}

func (a *Assembler) Assemble() (string, error) {
	var document strings.Builder

	document.WriteString("CONVERSATION AND CONTEXT:\n\n")

	log, err := a.conversationLog.ReadAll()
	switch {
	case err == nil:
		document.WriteString(log)
	case isNotFound(err):
		document.WriteString(NoConversationText)
	default:
		return "", err
	}

	document.WriteString("\nCODEBASE SNAPSHOT:\n\n")

	content, err := a.snapshots.Load()
	switch {
	case err == nil:
		readme, other, _ := SplitSections(content)
		if readme != "" {
			document.WriteString(snapshot.ReadmeMarker + "\n\n" + readme + "\n\n")
		} else {
			document.WriteString(NoReadmeText)
		}
		document.WriteString(other)
	case isNotFound(err):
		document.WriteString(NoSnapshotText)
	default:
		return "", err
	}

	return document.String(), nil
}

// Export assembles the document and writes it to a new file. If the timestamped name is taken,
// a numeric suffix is added so an earlier export is never overwritten.
func (a *Assembler) Export() (string, string, error) {
	document, err := a.Assemble()
	if err != nil {
		return "", "", err
	}

	base := a.prefix + a.clock().Format(FileTimestampLayout)

	for attempt := 0; attempt < maxCollisionSuffix; attempt++ {
		name := base + ".txt"
		if attempt > 0 {
			name = fmt.Sprintf("%s_%d.txt", base, attempt)
		}
		path := filepath.Join(a.dir, name)

		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", "", fmt.Errorf("failed to create export file: %w", err)
		}

		if _, err := file.WriteString(document); err != nil {
			file.Close()
			return "", "", fmt.Errorf("failed to write export file: %w", err)
		}
		if err := file.Close(); err != nil {
			return "", "", fmt.Errorf("failed to close export file: %w", err)
		}

		return path, document, nil
	}

	return "", "", fmt.Errorf("failed to find a free export file name for %s", base)
}

func isNotFound(err error) bool {
	return errors.Is(err, os.ErrNotExist) || errors.Is(err, snapshot.ErrNotFound) || errors.Is(err, conversation.ErrNotFound)
}
