// Package safefile replaces files atomically.
package safefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const defaultPerm fs.FileMode = 0o644

// rename is replaced in tests to fail the final step.
var rename = os.Rename

// WriteError reports a destination that could not be written. The
// destination is left as it was.
type WriteError struct {
	Path string
	Op   string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// Write stores data at path by writing a temporary file in the same
// directory and renaming it over path. An existing file keeps its
// permissions; a new one gets 0644. The temporary file is removed on every
// failure.
func Write(path string, data []byte) (err error) {
	dir := filepath.Dir(path)

	perm := defaultPerm
	if info, statErr := os.Stat(path); statErr == nil {
		if info.IsDir() {
			return &WriteError{Path: path, Op: "stat", Err: errors.New("destination is a directory")}
		}
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return &WriteError{Path: path, Op: "create temp file", Err: err}
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return &WriteError{Path: path, Op: "write", Err: err}
	}
	if err = tmp.Sync(); err != nil {
		return &WriteError{Path: path, Op: "sync", Err: err}
	}
	if err = tmp.Chmod(perm); err != nil {
		return &WriteError{Path: path, Op: "chmod", Err: err}
	}
	if err = tmp.Close(); err != nil {
		return &WriteError{Path: path, Op: "close", Err: err}
	}
	if err = rename(tmpName, path); err != nil {
		return &WriteError{Path: path, Op: "rename", Err: err}
	}
	return nil
}
