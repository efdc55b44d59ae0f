// Package collect gathers local file content for gist operations: explicit
// file lists, directory pattern scans, and id-list files. It is built on
// afero so tests can run against an in-memory filesystem.
package collect

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// Collector reads local files into filename-to-content mappings.
type Collector struct {
	fs afero.Fs
}

// NewCollector returns a collector backed by the OS filesystem.
func NewCollector() *Collector {
	return &Collector{fs: afero.NewOsFs()}
}

// NewCollectorWithFs returns a collector backed by the given filesystem.
func NewCollectorWithFs(fs afero.Fs) *Collector {
	return &Collector{fs: fs}
}

// ReadFiles reads the given paths and returns a basename-to-content
// mapping. Paths sharing a basename collide; the last one read wins, so
// callers should avoid passing duplicates.
func (c *Collector) ReadFiles(paths []string) (map[string]string, error) {
	files := make(map[string]string, len(paths))

	for _, path := range paths {
		info, err := c.fs.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("file not found: %s", path)
		}
		if info.IsDir() {
			return nil, fmt.Errorf("%s is a directory, not a file", path)
		}

		content, err := afero.ReadFile(c.fs, path)
		if err != nil {
			return nil, fmt.Errorf("error reading file %s: %w", path, err)
		}

		files[filepath.Base(path)] = string(content)
	}

	return files, nil
}

// FromDirectory reads every file in dir matching any of the glob patterns
// and returns a basename-to-content mapping. Matches are de-duplicated and
// directories are skipped; matching nothing at all is an error.
func (c *Collector) FromDirectory(dir string, patterns []string) (map[string]string, error) {
	info, err := c.fs.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("directory not found: %s", dir)
	}

	seen := make(map[string]struct{})
	var matches []string

	for _, pattern := range patterns {
		found, err := afero.Glob(c.fs, filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
		}
		for _, match := range found {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}

			info, err := c.fs.Stat(match)
			if err != nil || info.IsDir() {
				continue
			}
			matches = append(matches, match)
		}
	}

	if len(matches) == 0 {
		return nil, fmt.Errorf("no files found matching patterns %v in directory %s", patterns, dir)
	}

	sort.Strings(matches)
	return c.ReadFiles(matches)
}

// ReadIDFile reads a file of gist identifiers, one per line, skipping blank
// lines.
func (c *Collector) ReadIDFile(path string) ([]string, error) {
	content, err := afero.ReadFile(c.fs, path)
	if err != nil {
		return nil, fmt.Errorf("error reading id file %s: %w", path, err)
	}

	var ids []string
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		ids = append(ids, line)
	}

	return ids, nil
}
