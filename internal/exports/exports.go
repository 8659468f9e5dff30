// Package exports finds bank export files waiting to be rewritten.
package exports

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo describes an export file in a directory.
type FileInfo struct {
	Name string
	Path string
	Size int64
}

// Extensions lists the file types treated as exports.
var Extensions = []string{".qfx", ".ofx"}

// IsExport reports whether name has an export extension.
func IsExport(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// OutputPath returns the default output path for input: the suffix is
// inserted before the extension, so "jan.qfx" becomes "jan_modified.qfx".
func OutputPath(input, suffix string) string {
	ext := filepath.Ext(input)
	return strings.TrimSuffix(input, ext) + suffix + ext
}

// IsOutput reports whether name already carries suffix before its extension.
func IsOutput(name, suffix string) bool {
	if suffix == "" {
		return false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.HasSuffix(stem, suffix)
}

// Scan returns the export files in dir, skipping subdirectories and files
// that are already rewritten outputs. A missing directory yields no files.
func Scan(dir, suffix string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading export dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() || !IsExport(e.Name()) || IsOutput(e.Name(), suffix) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, fmt.Errorf("stat %s: %w", e.Name(), err)
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
			Size: info.Size(),
		})
	}
	return files, nil
}

// Archive moves a processed export into dir, creating dir if needed.
func Archive(path, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating archive dir: %w", err)
	}
	dst := filepath.Join(dir, filepath.Base(path))
	if err := os.Rename(path, dst); err != nil {
		return fmt.Errorf("moving %s to archive: %w", filepath.Base(path), err)
	}
	return nil
}
