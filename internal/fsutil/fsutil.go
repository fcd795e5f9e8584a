package fsutil

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
)

// ErrFileIO marks failures to create or write files on the local
// filesystem. Callers match it with errors.Is to distinguish disk
// problems from network ones.
var ErrFileIO = errors.New("file io error")

var backend = afero.Afero{Fs: afero.NewOsFs()}

// API returns the active afero.Afero instance for filesystem interaction.
func API() afero.Afero {
	return backend
}

// SetOsFs restores the filesystem backend to the native operating
// system implementation.
func SetOsFs() {
	backend = afero.Afero{Fs: afero.NewOsFs()}
}

// SetMemMapFs switches the filesystem backend to an in-memory
// implementation for tests.
func SetMemMapFs() {
	backend = afero.Afero{Fs: afero.NewMemMapFs()}
}

// EnsureDir creates a directory and all parent directories if they
// don't exist.
//
// Directories are created with mode 0755. If the directory already
// exists, no error is returned.
//
// Example:
//
//	err := fsutil.EnsureDir("Downloads")
func EnsureDir(path string) error {
	if err := backend.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("%w: creating %s: %v", ErrFileIO, path, err)
	}
	return nil
}

// Create opens a file for writing, truncating it if it already exists.
//
// Failures are wrapped with ErrFileIO so the caller can tell a bad
// destination path apart from a failed download.
func Create(path string) (afero.File, error) {
	file, err := backend.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrFileIO, path, err)
	}
	return file, nil
}

// WriteFile writes data to a file with mode 0644, creating it if
// necessary and truncating it if it already exists.
//
// Example:
//
//	err := fsutil.WriteFile("Downloads/MAG.m3u", []byte(content))
func WriteFile(path string, data []byte) error {
	if err := backend.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrFileIO, path, err)
	}
	return nil
}

// FileSize returns the size in bytes of the file at path, or an error
// if the file does not exist.
func FileSize(path string) (int64, error) {
	info, err := backend.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}

// Exists reports whether a file or directory exists at path.
func Exists(path string) bool {
	exists, err := backend.Exists(path)
	return err == nil && exists
}
