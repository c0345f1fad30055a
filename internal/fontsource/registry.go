package fontsource

import (
	"context"
	"fmt"
)

// Registry is the host's font registry.
type Registry interface {
	// ListAll returns every face the registry knows about, aliases included.
	ListAll(ctx context.Context) ([]Handle, error)
}

// RegistryFunc adapts a function to the Registry interface.
type RegistryFunc func(ctx context.Context) ([]Handle, error)

// ListAll calls f.
func (f RegistryFunc) ListAll(ctx context.Context) ([]Handle, error) {
	return f(ctx)
}

// MultiRegistry concatenates the results of several registries in order.
type MultiRegistry []Registry

// ListAll queries every registry; the first failure aborts the query.
func (m MultiRegistry) ListAll(ctx context.Context) ([]Handle, error) {
	var all []Handle
	for i, reg := range m {
		handles, err := reg.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("registry %d: %w", i, err)
		}
		all = append(all, handles...)
	}
	return all, nil
}
