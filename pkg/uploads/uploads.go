// Package uploads manages the directory of files a user hands to the agent
package uploads

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dustin/go-humanize"
)

// ErrInvalidName is returned for names that would escape the directory
var ErrInvalidName = errors.New("invalid upload name")

// File describes one uploaded file
type File struct {
	Name string
	Path string
	Size int64
}

// HumanSize formats the size the way the sidebar listing shows it
func (f File) HumanSize() string {
	return humanize.Bytes(uint64(f.Size))
}

func (f File) String() string {
	return fmt.Sprintf("%s (%s)", f.Name, f.HumanSize())
}

// Dir is an uploads directory. It is created lazily on first save.
type Dir struct {
	root string
}

func NewDir(root string) *Dir {
	if root == "" {
		root = "uploads"
	}
	return &Dir{root: root}
}

// Root returns the directory path
func (d *Dir) Root() string {
	return d.root
}

// Save copies r into the directory under name, replacing any file of the
// same name, and returns the saved path.
func (d *Dir) Save(name string, r io.Reader) (string, error) {
	clean := filepath.Base(filepath.Clean(name))
	if clean == "." || clean == ".." || clean == string(filepath.Separator) || strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	if err := os.MkdirAll(d.root, 0755); err != nil {
		return "", fmt.Errorf("failed to create uploads directory: %w", err)
	}

	path := filepath.Join(d.root, clean)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close upload: %w", err)
	}
	return path, nil
}

// SaveFile copies the file at src into the directory
func (d *Dir) SaveFile(src string) (string, error) {
	f, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", src, err)
	}
	defer f.Close()
	return d.Save(filepath.Base(src), f)
}

// List returns regular files sorted by name. A limit above zero caps the
// number returned; total is the count before capping. A missing
// directory lists as empty.
func (d *Dir) List(limit int) (files []File, total int, err error) {
	entries, err := os.ReadDir(d.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("failed to list uploads: %w", err)
	}

	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Name: e.Name(),
			Path: filepath.Join(d.root, e.Name()),
			Size: info.Size(),
		})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	total = len(files)
	if limit > 0 && len(files) > limit {
		files = files[:limit]
	}
	return files, total, nil
}

// Clear removes every file in the directory and returns how many were
// removed. Subdirectories are left alone.
func (d *Dir) Clear() (int, error) {
	files, _, err := d.List(0)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, f := range files {
		if err := os.Remove(f.Path); err != nil {
			return removed, fmt.Errorf("failed to remove %s: %w", f.Name, err)
		}
		removed++
	}
	return removed, nil
}

// PromptSuffix is appended to a prompt so the agent knows which files it
// was given. It is empty when nothing was uploaded.
func PromptSuffix(paths []string) string {
	if len(paths) == 0 {
		return ""
	}
	return "\n\nUploaded files: " + strings.Join(paths, ", ")
}
