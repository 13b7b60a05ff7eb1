package cmd

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/dappos/internal/identity"
	"github.com/Mohsinsiddi/dappos/internal/plugin"
	"github.com/Mohsinsiddi/dappos/internal/store"
	"go.uber.org/zap"
)

// openPlugin wires a Plugin to the configured store and identity. The
// returned func closes the store.
func openPlugin(ctx context.Context, opts ...plugin.Option) (*plugin.Plugin, func(), error) {
	st, err := store.Open(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s store: %w", cfg.Store.Backend, err)
	}
	ids, err := identity.OpenKeyring(cfg.Dir(), cfg.KeyringFile)
	if err != nil {
		st.Close() //nolint:errcheck
		return nil, nil, err
	}

	base := []plugin.Option{
		plugin.FromConfig(cfg),
		plugin.WithStore(st),
		plugin.WithIdentity(ids),
		plugin.WithLogger(logger),
	}
	p := plugin.New(append(base, opts...)...)

	closeFn := func() {
		if err := st.Close(); err != nil {
			logger.Warn("closing store", zap.String("store", st.Name()), zap.Error(err))
		}
	}
	return p, closeFn, nil
}
