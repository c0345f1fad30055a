package fontsource

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/nantokaworks/fontbridge/internal/fontpath"
	"github.com/nantokaworks/fontbridge/internal/shared/logger"
	"go.uber.org/zap"
)

// scanExtensions are the sfnt containers the name table parser understands.
var scanExtensions = map[string]bool{
	"ttf": true,
	"otf": true,
	"ttc": true,
	"otc": true,
}

func isScannable(path string) bool {
	return scanExtensions[fontpath.Extension(path)]
}

// DefaultFontDirs returns the platform's font directories (user and system).
func DefaultFontDirs() []string {
	return append([]string(nil), xdg.FontDirs...)
}

// DirRegistry finds fonts by walking directories.
type DirRegistry struct {
	Dirs []string
}

// ListAll walks every directory recursively. Missing directories are skipped.
// Every file yields face 0, collections included.
func (r DirRegistry) ListAll(ctx context.Context) ([]Handle, error) {
	var handles []Handle
	for _, dir := range r.Dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(dir)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				logger.Warn("Skipping unreadable font directory", zap.String("dir", dir), zap.Error(err))
			}
			continue
		}
		if !info.IsDir() {
			continue
		}

		matches, err := doublestar.Glob(os.DirFS(dir), "**/*", doublestar.WithFilesOnly())
		if err != nil {
			logger.Warn("Font directory scan failed", zap.String("dir", dir), zap.Error(err))
			continue
		}
		for _, rel := range matches {
			path := filepath.Join(dir, filepath.FromSlash(rel))
			if !isScannable(path) {
				continue
			}
			// face 0 stands for the whole file, collections included
			handles = append(handles, FileHandle(path, 0))
		}
	}
	return handles, nil
}
