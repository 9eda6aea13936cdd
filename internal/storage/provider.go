// Package storage defines the content workspace file-system abstraction.
package storage

import "github.com/starford/jera/internal/page"

// Provider is the interface for workspace file operations. All paths are
// relative to the workspace root (the repository checkout being synced).
type Provider interface {
	// ListDirs returns the names of the immediate subdirectories of dir,
	// sorted lexically. Hidden directories are skipped.
	ListDirs(dir string) ([]string, error)
	// List walks dir and returns metadata for every file whose extension is
	// in exts (e.g. ".md", ".py"). Hidden files and directories are skipped.
	List(dir string, exts ...string) ([]page.SourceInfo, error)
	// Read returns the raw bytes of the file at path.
	Read(path string) ([]byte, error)
	// Write atomically writes content to path, creating parent directories
	// as needed.
	Write(path string, content []byte) error
	// Delete removes the file at path.
	Delete(path string) error
	// Exists reports whether a regular file exists at path.
	Exists(path string) (bool, error)
}
