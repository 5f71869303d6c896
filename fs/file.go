// Package fs writes generated bulletin and slide files to disk.
package fs

import (
	"io"
	"os"
	"path/filepath"
)

// File is an output file with atomic update semantics. Bytes are written to
// a temporary file beside the target and moved into place on Commit, so a
// failed render never leaves a truncated document behind.
type File struct {
	path string
	tmp  *os.File
}

// Create opens a File that will replace path on Commit. Parent directories
// are created as needed.
func Create(path string) (*File, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return nil, err
	}
	return &File{path: path, tmp: tmp}, nil
}

// Path returns the final path of the file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Write(p []byte) (int, error) {
	return f.tmp.Write(p)
}

// Commit moves the written bytes to the final path, replacing any existing
// file.
func (f *File) Commit() error {
	if err := f.tmp.Chmod(0644); err != nil {
		f.Abort()
		return err
	}
	if err := f.tmp.Close(); err != nil {
		os.Remove(f.tmp.Name())
		return err
	}
	if err := os.Rename(f.tmp.Name(), f.path); err != nil {
		os.Remove(f.tmp.Name())
		return err
	}
	return nil
}

// Abort discards the written bytes. The final path is left untouched.
func (f *File) Abort() error {
	f.tmp.Close()
	return os.Remove(f.tmp.Name())
}

// WriteFile creates path with the output of write. Nothing is written to
// path if write fails.
func WriteFile(path string, write func(w io.Writer) error) error {
	f, err := Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Abort()
		return err
	}
	return f.Commit()
}
