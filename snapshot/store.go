package snapshot

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/meysamhadeli/aibundle/collector/models"
	"github.com/meysamhadeli/aibundle/snapshot/contracts"
)

const (
	ReadmeMarker = "README FILES:"
	OtherMarker  = "OTHER FILES:"
)

// ErrNotFound is returned by Load when no snapshot has been taken yet.
var ErrNotFound = errors.New("codebase snapshot not found")

// Store keeps the latest snapshot in a single file, overwritten on every Save.
type Store struct {
	path        string
	emitMarkers bool
}

// NewStore creates a store for the snapshot file at path. With emitMarkers the saved text carries
// README FILES: and OTHER FILES: headers, which the exporter uses to split the sections again.
func NewStore(path string, emitMarkers bool) contracts.ISnapshotStore {
	return &Store{path: path, emitMarkers: emitMarkers}
}

// Render returns the snapshot text for the given sections.
func Render(sections models.Sections, emitMarkers bool) string {
	if !emitMarkers {
		return sections.Readme + sections.Other
	}

	var builder strings.Builder
	builder.WriteString(ReadmeMarker + "\n\n")
	builder.WriteString(sections.Readme)
	builder.WriteString(OtherMarker + "\n\n")
	builder.WriteString(sections.Other)
	return builder.String()
}

func (s *Store) Save(sections models.Sections) error {
	if err := os.WriteFile(s.path, []byte(Render(sections, s.emitMarkers)), 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

func (s *Store) Load() (string, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read snapshot: %w", err)
	}
	return string(content), nil
}

func (s *Store) Path() string {
	return s.path
}
