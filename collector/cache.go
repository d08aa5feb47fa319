package collector

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/zeebo/xxh3"
)

const cacheFileSuffix = ".cache"

// CacheEntry represents a cached file content with the metadata used for invalidation
type CacheEntry struct {
	Content   []byte
	Timestamp time.Time
	FileSize  int64
	ModTime   time.Time
	Hash      uint64
}

// FileCache stores gob-encoded entries, one file per cached path
type FileCache struct {
	cacheDir string
	mutex    sync.RWMutex
}

// CacheStats tracks cache performance metrics
type CacheStats struct {
	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
	LastResetTime time.Time
	mutex         sync.RWMutex
}

// CacheReport is a point-in-time view of the cache directory and its hit rate.
type CacheReport struct {
	CacheDir      string
	CacheFiles    int
	TotalSize     int64
	TotalRequests int64
	CacheHits     int64
	CacheMisses   int64
	HitRate       float64
}

// CacheManager provides high-level caching operations for the collector
type CacheManager struct {
	fileCache *FileCache
	stats     *CacheStats
}

// NewCacheManager creates a cache rooted at cacheDir, creating the directory when needed,
// and drops entries older than a week.
func NewCacheManager(cacheDir string) (*CacheManager, error) {
	if cacheDir == "" {
		return nil, fmt.Errorf("cache directory must not be empty")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	cacheManager := &CacheManager{
		fileCache: &FileCache{cacheDir: cacheDir},
		stats: &CacheStats{
			LastResetTime: time.Now(),
		},
	}

	if _, err := cacheManager.CleanExpiredCache(7 * 24 * time.Hour); err != nil {
		return nil, err
	}

	return cacheManager, nil
}

// generateCacheKey creates a unique cache key for a file
func (fc *FileCache) generateCacheKey(filePath string) string {
	return fmt.Sprintf("%016x%s", xxh3.HashString(filePath), cacheFileSuffix)
}

func (fc *FileCache) getCachePath(cacheKey string) string {
	return filepath.Join(fc.cacheDir, cacheKey)
}

// isFileChanged checks if a file has been modified since last cache
func (fc *FileCache) isFileChanged(filePath string, entry *CacheEntry) (bool, error) {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return true, err
	}

	if !fileInfo.ModTime().Equal(entry.ModTime) || fileInfo.Size() != entry.FileSize {
		return true, nil
	}

	return false, nil
}

func readEntry(cachePath string) (*CacheEntry, error) {
	data, err := os.ReadFile(cachePath)
	if err != nil {
		return nil, err
	}

	var entry CacheEntry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entry); err != nil {
		return nil, err
	}

	return &entry, nil
}

// Get returns the cached content of filePath when the file is unchanged since it was stored.
func (fc *FileCache) Get(filePath string) ([]byte, bool) {
	fc.mutex.RLock()
	defer fc.mutex.RUnlock()

	cachePath := fc.getCachePath(fc.generateCacheKey(filePath))

	entry, err := readEntry(cachePath)
	if err != nil {
		return nil, false
	}

	changed, err := fc.isFileChanged(filePath, entry)
	if err != nil || changed {
		os.Remove(cachePath)
		return nil, false
	}

	if xxh3.Hash(entry.Content) != entry.Hash {
		os.Remove(cachePath)
		return nil, false
	}

	return entry.Content, true
}

// Set stores content in cache with file metadata
func (fc *FileCache) Set(filePath string, content []byte) error {
	fc.mutex.Lock()
	defer fc.mutex.Unlock()

	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	entry := CacheEntry{
		Content:   content,
		Timestamp: time.Now(),
		FileSize:  fileInfo.Size(),
		ModTime:   fileInfo.ModTime(),
		Hash:      xxh3.Hash(content),
	}

	var buffer bytes.Buffer
	if err := gob.NewEncoder(&buffer).Encode(entry); err != nil {
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}

	cachePath := fc.getCachePath(fc.generateCacheKey(filePath))
	if err := os.WriteFile(cachePath, buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}

	return nil
}

// GetFileContentCache retrieves cached file content
func (cm *CacheManager) GetFileContentCache(filePath string) ([]byte, bool) {
	content, found := cm.fileCache.Get(filePath)
	if !found {
		cm.recordCacheMiss()
		return nil, false
	}

	cm.recordCacheHit()
	return content, true
}

// SetFileContentCache stores file content in cache
func (cm *CacheManager) SetFileContentCache(filePath string, content []byte) error {
	return cm.fileCache.Set(filePath, content)
}

func (cm *CacheManager) cacheFiles() ([]os.DirEntry, error) {
	entries, err := os.ReadDir(cm.fileCache.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	files := entries[:0]
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), cacheFileSuffix) {
			files = append(files, entry)
		}
	}
	return files, nil
}

// GetCacheStats returns storage and hit-rate statistics
func (cm *CacheManager) GetCacheStats() (*CacheReport, error) {
	cm.fileCache.mutex.RLock()
	files, err := cm.cacheFiles()
	cm.fileCache.mutex.RUnlock()
	if err != nil {
		return nil, err
	}

	var totalSize int64
	for _, file := range files {
		if info, err := file.Info(); err == nil {
			totalSize += info.Size()
		}
	}

	report := &CacheReport{
		CacheDir:   cm.fileCache.cacheDir,
		CacheFiles: len(files),
		TotalSize:  totalSize,
	}

	cm.stats.mutex.RLock()
	report.TotalRequests = cm.stats.TotalRequests
	report.CacheHits = cm.stats.CacheHits
	report.CacheMisses = cm.stats.CacheMisses
	cm.stats.mutex.RUnlock()

	if report.TotalRequests > 0 {
		report.HitRate = float64(report.CacheHits) / float64(report.TotalRequests) * 100
	}

	return report, nil
}

// CleanExpiredCache removes cache entries older than maxAge and returns how many were removed
func (cm *CacheManager) CleanExpiredCache(maxAge time.Duration) (int, error) {
	cm.fileCache.mutex.Lock()
	defer cm.fileCache.mutex.Unlock()

	files, err := cm.cacheFiles()
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0

	for _, file := range files {
		cachePath := filepath.Join(cm.fileCache.cacheDir, file.Name())

		entry, err := readEntry(cachePath)
		if err != nil {
			// unreadable entries are useless
			if os.Remove(cachePath) == nil {
				removed++
			}
			continue
		}

		if entry.Timestamp.Before(cutoff) {
			if os.Remove(cachePath) == nil {
				removed++
			}
		}
	}

	return removed, nil
}

// ClearCache removes all cache entries and returns how many were deleted
func (cm *CacheManager) ClearCache() (int, error) {
	cm.fileCache.mutex.Lock()
	defer cm.fileCache.mutex.Unlock()

	files, err := cm.cacheFiles()
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, file := range files {
		if err := os.Remove(filepath.Join(cm.fileCache.cacheDir, file.Name())); err == nil {
			deleted++
		}
	}

	cm.ResetPerformanceStats()

	return deleted, nil
}

func (cm *CacheManager) recordCacheHit() {
	cm.stats.mutex.Lock()
	defer cm.stats.mutex.Unlock()
	cm.stats.TotalRequests++
	cm.stats.CacheHits++
}

func (cm *CacheManager) recordCacheMiss() {
	cm.stats.mutex.Lock()
	defer cm.stats.mutex.Unlock()
	cm.stats.TotalRequests++
	cm.stats.CacheMisses++
}

// ResetPerformanceStats resets all performance counters
func (cm *CacheManager) ResetPerformanceStats() {
	cm.stats.mutex.Lock()
	defer cm.stats.mutex.Unlock()

	cm.stats.TotalRequests = 0
	cm.stats.CacheHits = 0
	cm.stats.CacheMisses = 0
	cm.stats.LastResetTime = time.Now()
}
