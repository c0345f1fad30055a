package webserver

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/nantokaworks/fontbridge/internal/shared/logger"
	"github.com/nantokaworks/fontbridge/internal/version"
	"go.uber.org/zap"
)

//go:embed openapi.yaml
var openAPISource []byte

var (
	openAPIOnce sync.Once
	openAPIJSON []byte
	openAPIErr  error
)

// loadOpenAPI parses and validates the bundled API description.
func loadOpenAPI(ctx context.Context) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(openAPISource)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	doc.Info.Version = version.Version
	return doc, nil
}

func openAPIDocument() ([]byte, error) {
	openAPIOnce.Do(func() {
		doc, err := loadOpenAPI(context.Background())
		if err != nil {
			openAPIErr = err
			return
		}
		openAPIJSON, openAPIErr = json.Marshal(doc)
	})
	return openAPIJSON, openAPIErr
}

func handleOpenAPI(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, err := openAPIDocument()
	if err != nil {
		logger.Error("Failed to build OpenAPI document", zap.Error(err))
		http.Error(w, "Failed to build OpenAPI document", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}
