package fontmanager

import (
	"context"

	"github.com/nantokaworks/fontbridge/internal/fontname"
	"github.com/nantokaworks/fontbridge/internal/fontsource"
	"github.com/nantokaworks/fontbridge/internal/shared/logger"
	"go.uber.org/zap"
)

// ListSystemFonts enumerates reg and builds one record per physical font, in
// enumeration order. Fonts that cannot be read or parsed are logged and
// skipped; only a registry failure (*fontsource.EnumerationError) or the
// cancellation of ctx is returned as an error.
func ListSystemFonts(ctx context.Context, reg fontsource.Registry) ([]FontRecord, error) {
	handles, err := fontsource.ListFonts(ctx, reg)
	if err != nil {
		return nil, err
	}

	records := make([]FontRecord, 0, len(handles))
	skipped := 0
	for _, h := range handles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := h.Bytes()
		if err != nil {
			logger.Warn("Failed to read font",
				zap.String("path", h.DisplayPath()),
				zap.Error(err))
			skipped++
			continue
		}
		names, err := fontname.Parse(data, h.FaceIndex)
		if err != nil {
			logger.Warn("Failed to parse font",
				zap.String("path", h.DisplayPath()),
				zap.Int("face", h.FaceIndex),
				zap.Error(err))
			skipped++
			continue
		}
		records = append(records, BuildRecord(h, names))
	}

	logger.Debug("Font listing built",
		zap.Int("fonts", len(records)),
		zap.Int("skipped", skipped))
	return records, nil
}
