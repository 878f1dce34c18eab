// Package fsx implements the filesystem abstraction the core consumes:
// exists, is_directory_readable, is_file_readable, read_file. It is
// backed by afero.Fs so tests can run against afero.NewMemMapFs() instead
// of the real disk.
package fsx

import (
	"errors"
	"io"
	"os"

	"github.com/spf13/afero"
)

// Filesystem is the trait the configuration core names.
type Filesystem interface {
	Exists(path string) bool
	IsDirectoryReadable(path string) bool
	IsFileReadable(path string) bool
	ReadFile(path string) (string, error)
}

// Afero adapts an afero.Fs to Filesystem.
type Afero struct {
	FS afero.Fs
}

// NewOS returns a Filesystem backed by the real OS filesystem.
func NewOS() Afero { return Afero{FS: afero.NewOsFs()} }

// NewMem returns a Filesystem backed by an in-memory filesystem, for tests.
func NewMem() Afero { return Afero{FS: afero.NewMemMapFs()} }

func (a Afero) Exists(path string) bool {
	ok, err := afero.Exists(a.FS, path)
	return err == nil && ok
}

func (a Afero) IsDirectoryReadable(path string) bool {
	info, err := a.FS.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	f, err := a.FS.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	_, err = f.Readdirnames(1)
	return err == nil || errors.Is(err, io.EOF)
}

func (a Afero) IsFileReadable(path string) bool {
	info, err := a.FS.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	f, err := a.FS.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	return true
}

func (a Afero) ReadFile(path string) (string, error) {
	b, err := afero.ReadFile(a.FS, path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// StatMode exposes the raw permission bits for diagnostics (e.g.
// distinguishing "not found" from "not readable" when building
// filesystem/not_readable errors).
func StatMode(fs afero.Fs, path string) (os.FileMode, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Mode(), nil
}
