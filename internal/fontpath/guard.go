// Package fontpath decides which file-system paths may be streamed to clients
// and which Content-Type they are served with.
package fontpath

import (
	"path/filepath"
	"strings"
)

var servableExtensions = map[string]bool{
	"ttf":   true,
	"otf":   true,
	"woff":  true,
	"woff2": true,
	"ttc":   true,
}

var mimeTypes = map[string]string{
	"ttf":   "font/ttf",
	"otf":   "font/otf",
	"woff":  "application/font-woff",
	"woff2": "application/font-woff2",
	"ttc":   "font/collection",
}

// DefaultMimeType is returned for anything that is not a known font extension.
const DefaultMimeType = "application/octet-stream"

// Extension returns the lower-cased extension of the last path element,
// without the leading dot. Dot files such as ".ttf" have no extension.
func Extension(path string) string {
	name := filepath.Base(path)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// IsServable reports whether path is absolute and carries one of the font
// extensions ttf, otf, woff, woff2 or ttc (case-insensitive).
//
// The check is syntactic only: ".." segments are not rejected and symlinks are
// not followed. Use a Guard with roots for a real jail.
func IsServable(path string) bool {
	if !filepath.IsAbs(path) {
		return false
	}
	return servableExtensions[Extension(path)]
}

// MimeTypeFor maps the extension of path to the Content-Type used when
// streaming it.
func MimeTypeFor(path string) string {
	if mt, ok := mimeTypes[Extension(path)]; ok {
		return mt
	}
	return DefaultMimeType
}

// Guard extends IsServable with an optional set of allowed root directories.
// A Guard without roots (including a nil *Guard) behaves exactly like IsServable.
type Guard struct {
	roots []string
}

// NewGuard returns a Guard restricted to roots. Roots are cleaned and, where
// possible, resolved through symlinks so that comparisons happen on real paths.
func NewGuard(roots []string) *Guard {
	g := &Guard{}
	for _, root := range roots {
		root = strings.TrimSpace(root)
		if root == "" || !filepath.IsAbs(root) {
			continue
		}
		g.roots = append(g.roots, resolve(root))
	}
	return g
}

// Roots returns the resolved roots of the guard.
func (g *Guard) Roots() []string {
	if g == nil {
		return nil
	}
	return append([]string(nil), g.roots...)
}

// Allow reports whether path may be served.
func (g *Guard) Allow(path string) bool {
	if !IsServable(path) {
		return false
	}
	if g == nil || len(g.roots) == 0 {
		return true
	}
	real := resolve(path)
	for _, root := range g.roots {
		if within(root, real) {
			return true
		}
	}
	return false
}

func resolve(path string) string {
	path = filepath.Clean(path)
	if real, err := filepath.EvalSymlinks(path); err == nil {
		return real
	}
	return path
}

func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || filepath.IsAbs(rel) {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
