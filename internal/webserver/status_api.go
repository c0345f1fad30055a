package webserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nantokaworks/fontbridge/internal/version"
)

// handleStatus reports the build and the font endpoints.
func handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	statusData := map[string]interface{}{
		"version":        version.String(),
		"build":          version.Get(),
		"fonts_endpoint": "/fonts",
		"font_endpoint":  "/font",
		"allowed_roots":  currentGuard().Roots(),
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(statusData)
}
