package webserver

import (
	"errors"
	"io"
	"io/fs"
	"net/http"
	"os"

	"github.com/nantokaworks/fontbridge/internal/fontpath"
	"github.com/nantokaworks/fontbridge/internal/shared/logger"
	"go.uber.org/zap"
)

// writePlain writes msg as the whole body. http.Error would append a newline.
func writePlain(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(code)
	_, _ = io.WriteString(w, msg)
}

// handleFontFile streams the font file named by the path query parameter.
func handleFontFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	// パラメータ自体が無い場合のみ Missing、空文字はガードで弾く
	q := r.URL.Query()
	if !q.Has("path") {
		writePlain(w, http.StatusBadRequest, "Missing file path")
		return
	}
	path := q.Get("path")
	if !currentGuard().Allow(path) {
		logger.Warn("Rejected font file request", zap.String("path", path))
		writePlain(w, http.StatusBadRequest, "Invalid file path")
		return
	}

	f, err := os.Open(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("Failed to open font file", zap.String("path", path), zap.Error(err))
		}
		writePlain(w, http.StatusNotFound, "File not found")
		return
	}
	defer f.Close()

	// 読み込み途中で失敗した場合はヘッダー送信前に 500 を返す
	data, err := io.ReadAll(f)
	if err != nil {
		logger.Error("Failed to read font file", zap.String("path", path), zap.Error(err))
		writePlain(w, http.StatusInternalServerError, "Failed to read file")
		return
	}

	w.Header().Set("Content-Type", fontpath.MimeTypeFor(path))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
