package fontsource

import (
	"fmt"
	"strings"
)

// Source names accepted by NewRegistry.
const (
	SourceSystem     = "system"
	SourceFontconfig = "fontconfig"
	SourceDirs       = "dirs"
)

// Options selects how the host registry is assembled.
type Options struct {
	// Source is one of SourceSystem (default), SourceFontconfig or SourceDirs.
	Source string
	// ExtraDirs are scanned in addition to the platform registry.
	ExtraDirs []string
	// IncludeEmbedded appends the bundled Go fonts as in-memory fonts.
	IncludeEmbedded bool
}

// SystemRegistry is the host's default registry: fontconfig when fc-list is
// installed, otherwise a scan of the platform's font directories.
func SystemRegistry() Registry {
	if fc := (FontconfigRegistry{}); fc.Available() {
		return fc
	}
	return DirRegistry{Dirs: DefaultFontDirs()}
}

// NewRegistry builds the registry described by opts.
func NewRegistry(opts Options) (Registry, error) {
	var regs MultiRegistry

	switch strings.ToLower(strings.TrimSpace(opts.Source)) {
	case "", SourceSystem:
		regs = append(regs, SystemRegistry())
	case SourceFontconfig:
		regs = append(regs, FontconfigRegistry{})
	case SourceDirs:
		regs = append(regs, DirRegistry{Dirs: DefaultFontDirs()})
	default:
		return nil, fmt.Errorf("unknown font source %q", opts.Source)
	}

	if len(opts.ExtraDirs) > 0 {
		regs = append(regs, DirRegistry{Dirs: opts.ExtraDirs})
	}
	if opts.IncludeEmbedded {
		regs = append(regs, EmbeddedRegistry{})
	}
	if len(regs) == 1 {
		return regs[0], nil
	}
	return regs, nil
}
