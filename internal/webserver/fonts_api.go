package webserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/nantokaworks/fontbridge/internal/fontmanager"
	"github.com/nantokaworks/fontbridge/internal/shared/logger"
	"go.uber.org/zap"
)

// handleFonts lists the installed fonts. Failures are reported in the body,
// still with status 200.
func handleFonts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), currentListTimeout())
	defer cancel()

	var response map[string]interface{}
	fonts, err := fontmanager.ListSystemFonts(ctx, currentRegistry())
	if err != nil {
		logger.Error("Failed to list fonts", zap.Error(err))
		response = map[string]interface{}{
			"error": err.Error(),
		}
	} else {
		logger.Debug("Listed fonts", zap.Int("count", len(fonts)))
		response = map[string]interface{}{
			"code": http.StatusOK,
			"data": fonts,
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}
