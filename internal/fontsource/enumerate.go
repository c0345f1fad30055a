package fontsource

import (
	"context"
	"errors"
)

// EnumerationError reports that the host registry could not be queried.
type EnumerationError struct {
	Err error
}

func (e *EnumerationError) Error() string {
	return "Error fetching font families: " + e.Err.Error()
}

func (e *EnumerationError) Unwrap() error {
	return e.Err
}

// ListFonts queries reg and removes duplicates: every physical file appears
// once, represented by the first handle reported for it, and only the first
// in-memory font survives. An empty registry yields an empty, non-nil slice.
func ListFonts(ctx context.Context, reg Registry) ([]Handle, error) {
	if reg == nil {
		return nil, &EnumerationError{Err: errors.New("no font registry configured")}
	}
	all, err := reg.ListAll(ctx)
	if err != nil {
		return nil, &EnumerationError{Err: err}
	}

	seen := make(map[string]struct{}, len(all))
	handles := make([]Handle, 0, len(all))
	for _, h := range all {
		key := h.dedupeKey()
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		handles = append(handles, h)
	}
	return handles, nil
}
