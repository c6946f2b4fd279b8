// Package storage keeps uploaded document files on the local filesystem.
package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PublicPrefix is the URL path uploaded files are served under
const PublicPrefix = "uploads/documents"

// StoredFile describes a file written by Save
type StoredFile struct {
	Name string // generated file name
	Path string // public relative path
	Size int64
}

// Entry is a file found in the upload directory
type Entry struct {
	Name    string
	ModTime time.Time
}

// Local stores files flat in one directory
type Local struct {
	root string
}

// NewLocal returns a store rooted at dir. The directory is created on first write.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

// Root returns the upload directory
func (l *Local) Root() string {
	return l.root
}

// Path returns the filesystem path of a stored file name
func (l *Local) Path(name string) string {
	return filepath.Join(l.root, name)
}

// Save streams r into a new file named <uuidv7>.<ext>
func (l *Local) Save(ext string, r io.Reader) (StoredFile, error) {
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return StoredFile{}, fmt.Errorf("failed to create upload directory: %w", err)
	}

	id, err := uuid.NewV7()
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to generate file name: %w", err)
	}
	name := id.String()
	if ext = strings.TrimPrefix(strings.ToLower(ext), "."); ext != "" {
		name += "." + ext
	}

	full := filepath.Join(l.root, name)
	f, err := os.OpenFile(full, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return StoredFile{}, fmt.Errorf("failed to create file: %w", err)
	}

	size, copyErr := io.Copy(f, r)
	closeErr := f.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		_ = os.Remove(full)
		return StoredFile{}, fmt.Errorf("failed to write file: %w", err)
	}

	return StoredFile{Name: name, Path: PublicPath(name), Size: size}, nil
}

// Remove deletes a stored file. A file that is already gone is not an error.
func (l *Local) Remove(name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.root, name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// List returns the regular files in the upload directory
func (l *Local) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(l.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() {
			continue
		}
		info, err := de.Info()
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Name: de.Name(), ModTime: info.ModTime()})
	}
	return entries, nil
}

// Writable verifies the directory exists (creating it) and accepts new files
func (l *Local) Writable() error {
	if err := os.MkdirAll(l.root, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(l.root, ".probe-*")
	if err != nil {
		return err
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}

// PublicPath maps a stored file name to its served relative path
func PublicPath(name string) string {
	return path.Join(PublicPrefix, name)
}

// NameFromPath extracts the stored file name from a public relative path
func NameFromPath(p string) string {
	return path.Base(filepath.ToSlash(p))
}

func checkName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("invalid stored file name %q", name)
	}
	return nil
}
