package collector

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/meysamhadeli/aibundle/collector/contracts"
	"github.com/meysamhadeli/aibundle/collector/models"
	"github.com/meysamhadeli/aibundle/utils"
	"github.com/sirupsen/logrus"
	"github.com/zeebo/xxh3"
)

var readmePattern = regexp.MustCompile(`(?i)^readme(\.md|\.txt)?$`)

// IsReadme reports whether a file name is README, README.md or README.txt, ignoring case.
func IsReadme(name string) bool {
	return readmePattern.MatchString(name)
}

// Options configures which entries a FileTreeCollector visits.
type Options struct {
	// Exclude lists slash-separated paths, relative to the root, that are never visited.
	Exclude []string
	// ExcludePatterns are globs matched against the relative path.
	ExcludePatterns []string
	// IgnorePatterns come from the ignore file.
	IgnorePatterns    []string
	UseDefaultIgnores bool
	// MaxFileSize skips larger files; 0 disables the limit.
	MaxFileSize int64
}

// FileTreeCollector walks a directory tree and renders every file into README and other sections.
type FileTreeCollector struct {
	options      Options
	exclude      map[string]struct{}
	cacheManager *CacheManager
}

// NewFileTreeCollector initializes a collector. cacheManager may be nil to read every file from disk.
func NewFileTreeCollector(options Options, cacheManager *CacheManager) contracts.IFileTreeCollector {
	exclude := make(map[string]struct{}, len(options.Exclude))
	for _, relativePath := range options.Exclude {
		if relativePath == "" {
			continue
		}
		exclude[path.Clean(filepath.ToSlash(relativePath))] = struct{}{}
	}

	return &FileTreeCollector{
		options:      options,
		exclude:      exclude,
		cacheManager: cacheManager,
	}
}

func (c *FileTreeCollector) Collect(root string) (*models.CollectResult, error) {
	result := &models.CollectResult{}

	sections, err := c.walk(root, "", result)
	if err != nil {
		return nil, err
	}

	result.Sections = sections
	return result, nil
}

// walk visits dir, whose path relative to the root is relativeDir, and returns the records it produced.
func (c *FileTreeCollector) walk(dir string, relativeDir string, result *models.CollectResult) (models.Sections, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return models.Sections{}, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var readme, other strings.Builder

	for _, entry := range entries {
		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}

		relativePath := name
		if relativeDir != "" {
			relativePath = relativeDir + "/" + name
		}

		if c.isExcluded(relativePath) {
			continue
		}

		fullPath := filepath.Join(dir, name)

		if entry.IsDir() {
			sub, err := c.walk(fullPath, relativePath, result)
			if err != nil {
				c.warn(result, relativePath, err)
				continue
			}
			readme.WriteString(sub.Readme)
			other.WriteString(sub.Other)
			continue
		}

		content, size, err := c.readFile(fullPath)
		if err != nil {
			c.warn(result, relativePath, err)
			continue
		}

		record := models.FileRecord{RelativePath: relativePath, Content: string(content)}
		isReadme := IsReadme(name)
		if isReadme {
			readme.WriteString(record.Render())
		} else {
			other.WriteString(record.Render())
		}

		result.Files = append(result.Files, models.FileInfo{
			RelativePath: relativePath,
			Size:         size,
			Readme:       isReadme,
			Fingerprint:  fmt.Sprintf("%016x", xxh3.Hash(content)),
		})
	}

	return models.Sections{Readme: readme.String(), Other: other.String()}, nil
}

func (c *FileTreeCollector) isExcluded(relativePath string) bool {
	if _, ok := c.exclude[relativePath]; ok {
		return true
	}

	for _, pattern := range c.options.ExcludePatterns {
		if match, _ := path.Match(pattern, relativePath); match {
			return true
		}
	}

	if c.options.UseDefaultIgnores && utils.IsDefaultIgnored(relativePath) {
		return true
	}

	return utils.IsIgnored(relativePath, c.options.IgnorePatterns)
}

// readFile returns the content of a regular file, following symlinks, and its size.
func (c *FileTreeCollector) readFile(fullPath string) ([]byte, int64, error) {
	fileInfo, err := os.Stat(fullPath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get file info: %w", err)
	}

	if !fileInfo.Mode().IsRegular() {
		return nil, 0, fmt.Errorf("not a regular file (%s)", fileInfo.Mode().Type())
	}

	if c.options.MaxFileSize > 0 && fileInfo.Size() > c.options.MaxFileSize {
		return nil, 0, fmt.Errorf("file size %d exceeds limit of %d bytes", fileInfo.Size(), c.options.MaxFileSize)
	}

	if c.cacheManager != nil {
		if content, found := c.cacheManager.GetFileContentCache(fullPath); found {
			return content, fileInfo.Size(), nil
		}
	}

	content, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read file: %w", err)
	}

	if c.cacheManager != nil {
		if err := c.cacheManager.SetFileContentCache(fullPath, content); err != nil {
			logrus.WithField("path", fullPath).Warnf("Failed to cache file content: %v", err)
		}
	}

	return content, fileInfo.Size(), nil
}

func (c *FileTreeCollector) warn(result *models.CollectResult, relativePath string, err error) {
	logrus.WithField("path", relativePath).Warnf("Skipping entry: %v", err)
	result.Warnings = append(result.Warnings, fmt.Sprintf("%s: %v", relativePath, err))
}
