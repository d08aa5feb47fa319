package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// defaultIgnoredNames are path components skipped when default ignores are enabled.
var defaultIgnoredNames = []string{
	".git",
	".svn",
	".hg",
	".idea",
	".vscode",
	"node_modules",
	"vendor",
	"dist",
	"bin",
	"obj",
	".cache",
}

// defaultIgnoredSuffixes are file suffixes skipped when default ignores are enabled.
var defaultIgnoredSuffixes = []string{
	".exe",
	".dll",
	".so",
	".log",
	".bak",
	".tmp",
	".png",
	".jpg",
	".jpeg",
	".gif",
	".mp3",
	".mp4",
	".zip",
	".tar",
	".gz",
}

// GetIgnorePatterns reads the patterns from the ignore file in cwd.
// If the file does not exist, it returns an empty pattern list.
func GetIgnorePatterns(cwd string, ignoreFile string) ([]string, error) {
	if ignoreFile == "" {
		return []string{}, nil
	}

	ignorePath := filepath.Join(cwd, ignoreFile)

	content, err := os.ReadFile(ignorePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ignoreFile, err)
	}

	var patterns []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, nil
}

// IsDefaultIgnored reports whether a slash-separated relative path falls under the built-in ignore list.
func IsDefaultIgnored(relativePath string) bool {
	parts := strings.Split(relativePath, "/")

	for _, part := range parts {
		lower := strings.ToLower(part)
		for _, name := range defaultIgnoredNames {
			if lower == name {
				return true
			}
		}
	}

	base := strings.ToLower(parts[len(parts)-1])
	for _, suffix := range defaultIgnoredSuffixes {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}

// IsIgnored checks if a slash-separated relative path matches any of the patterns.
// Patterns without a slash also match the base name; patterns ending in "/" match a directory and everything below it.
func IsIgnored(relativePath string, patterns []string) bool {
	base := path.Base(relativePath)

	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/") {
			dir := strings.TrimSuffix(pattern, "/")
			if relativePath == dir || strings.HasPrefix(relativePath, pattern) {
				return true
			}
			continue
		}

		if match, _ := path.Match(pattern, relativePath); match {
			return true
		}

		if !strings.Contains(pattern, "/") {
			if match, _ := path.Match(pattern, base); match {
				return true
			}
		}
	}
	return false
}
