package fontsource

import (
	"context"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// EmbeddedRegistry reports the Go fonts compiled into the binary as
// in-memory fonts. All in-memory fonts share one de-duplication key, so a
// listing keeps only the first of them.
type EmbeddedRegistry struct{}

// ListAll returns the bundled Go fonts.
func (EmbeddedRegistry) ListAll(ctx context.Context) ([]Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []Handle{
		MemoryHandle(goregular.TTF, 0),
		MemoryHandle(gobold.TTF, 0),
		MemoryHandle(goitalic.TTF, 0),
		MemoryHandle(gomono.TTF, 0),
	}, nil
}
