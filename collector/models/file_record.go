package models

import (
	"fmt"
	"strings"
)

// RecordSeparator closes every file record in a snapshot.
var RecordSeparator = strings.Repeat("-", 80)

// FileRecord holds the path and content of a file
type FileRecord struct {
	RelativePath string
	Content      string
}

// Render formats the record the way it is stored in a snapshot.
func (r FileRecord) Render() string {
	return fmt.Sprintf("File: %s\nContent:\n%s\n%s\n\n", r.RelativePath, r.Content, RecordSeparator)
}

// Sections is the pair of concatenated record blocks produced by a walk.
type Sections struct {
	Readme string
	Other  string
}

// FileInfo describes one file that made it into a snapshot.
type FileInfo struct {
	RelativePath string
	Size         int64
	Readme       bool
	Fingerprint  string
}

type CollectResult struct {
	Sections Sections
	Files    []FileInfo
	Warnings []string
}

// ReadmeCount returns how many collected files were classified as README files.
func (r *CollectResult) ReadmeCount() int {
	count := 0
	for _, file := range r.Files {
		if file.Readme {
			count++
		}
	}
	return count
}
