// Package fontsource discovers the fonts installed on the host and turns them
// into handles that can be read and parsed.
package fontsource

import (
	"os"
	"path/filepath"
)

// MemorySentinel stands in for the path and file name of fonts that only
// exist in memory. It is also their de-duplication key.
const MemorySentinel = "Memory-Loaded Font"

// Handle identifies one face of a font on the host: either a file on disk or
// an in-memory blob, plus the face index inside a collection.
type Handle struct {
	path      string
	data      []byte
	inMemory  bool
	FaceIndex int
}

// FileHandle returns a handle for face faceIndex of the file at path.
func FileHandle(path string, faceIndex int) Handle {
	return Handle{path: path, FaceIndex: faceIndex}
}

// MemoryHandle returns a handle for face faceIndex of data.
func MemoryHandle(data []byte, faceIndex int) Handle {
	return Handle{data: data, inMemory: true, FaceIndex: faceIndex}
}

// InMemory reports whether the font has no backing file.
func (h Handle) InMemory() bool {
	return h.inMemory
}

// Path returns the file path, or "" for in-memory fonts.
func (h Handle) Path() string {
	return h.path
}

// DisplayPath is the path reported to clients.
func (h Handle) DisplayPath() string {
	if h.inMemory {
		return MemorySentinel
	}
	return h.path
}

// FileName is the last element of the path.
func (h Handle) FileName() string {
	if h.inMemory {
		return MemorySentinel
	}
	return filepath.Base(h.path)
}

// Bytes returns the raw font data, reading it from disk for file handles.
func (h Handle) Bytes() ([]byte, error) {
	if h.inMemory {
		return h.data, nil
	}
	return os.ReadFile(h.path)
}

// dedupeKey is the identity of the physical font behind h. Aliases of one
// file (symlinks, relative spellings) collapse to the same key; every
// in-memory font shares MemorySentinel.
func (h Handle) dedupeKey() string {
	if h.inMemory {
		return MemorySentinel
	}
	p := filepath.Clean(h.path)
	if abs, err := filepath.Abs(p); err == nil {
		p = abs
	}
	if real, err := filepath.EvalSymlinks(p); err == nil {
		return real
	}
	return p
}
