package webserver

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/nantokaworks/fontbridge/internal/fontpath"
	"github.com/nantokaworks/fontbridge/internal/fontsource"
	"github.com/nantokaworks/fontbridge/internal/shared/logger"
	"go.uber.org/zap"
)

// DefaultListTimeout bounds one font listing unless SetListTimeout says otherwise.
const DefaultListTimeout = 60 * time.Second

var (
	httpServer *http.Server

	configMu     sync.RWMutex
	fontRegistry fontsource.Registry
	pathGuard    *fontpath.Guard
	listTimeout  = DefaultListTimeout
)

// SetFontRegistry sets the registry queried by the font listing.
func SetFontRegistry(reg fontsource.Registry) {
	configMu.Lock()
	fontRegistry = reg
	configMu.Unlock()
}

// SetPathGuard sets the guard applied to font file requests. A nil guard
// only checks that the path is absolute with a font extension.
func SetPathGuard(g *fontpath.Guard) {
	configMu.Lock()
	pathGuard = g
	configMu.Unlock()
}

// SetListTimeout bounds the time spent building one font listing.
func SetListTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultListTimeout
	}
	configMu.Lock()
	listTimeout = d
	configMu.Unlock()
}

func currentRegistry() fontsource.Registry {
	configMu.RLock()
	defer configMu.RUnlock()
	return fontRegistry
}

func currentGuard() *fontpath.Guard {
	configMu.RLock()
	defer configMu.RUnlock()
	return pathGuard
}

func currentListTimeout() time.Duration {
	configMu.RLock()
	defer configMu.RUnlock()
	return listTimeout
}

// corsMiddleware adds CORS headers to HTTP handlers
func corsMiddleware(handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		handler(w, r)
	}
}

// NewHandler builds the routing table of the server.
func NewHandler() http.Handler {
	mux := http.NewServeMux()

	// フォント API
	mux.HandleFunc("/fonts", corsMiddleware(gzipHandler(handleFonts)))
	mux.HandleFunc("/font", corsMiddleware(handleFontFile))

	// Service info
	mux.HandleFunc("/status", corsMiddleware(handleStatus))
	mux.HandleFunc("/openapi.json", corsMiddleware(handleOpenAPI))

	// ログ関連
	mux.HandleFunc("/api/logs", corsMiddleware(handleLogs))
	mux.HandleFunc("/api/logs/download", corsMiddleware(handleLogsDownload))
	mux.HandleFunc("/api/logs/stream", handleLogsStream)
	mux.HandleFunc("/api/logs/clear", corsMiddleware(handleLogsClear))

	return requestMiddleware(mux)
}

// StartWebServer starts listening on addr in the background. It returns an
// error when the address cannot be bound.
func StartWebServer(addr string) error {
	logger.Info("Starting web server", zap.String("address", addr))

	httpServer = &http.Server{
		Addr:         addr,
		Handler:      NewHandler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: currentListTimeout() + 30*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine and wait briefly to check for immediate errors
	errChan := make(chan error, 1)
	srv := httpServer
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			logger.Error("Failed to start web server", zap.Error(err))
			return fmt.Errorf("failed to start web server on %s: %w", addr, err)
		}
	case <-time.After(100 * time.Millisecond):
		// 即時エラーが無ければ起動成功とみなす
	}

	return nil
}

// Shutdown gracefully shuts down the web server
func Shutdown() {
	if httpServer == nil {
		return
	}

	// 1秒以内に終わらなければ打ち切る
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Failed to shutdown web server gracefully", zap.Error(err))
	} else {
		logger.Info("Web server shutdown complete")
	}
}
