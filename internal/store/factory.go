package store

import (
	"context"
	"fmt"

	"github.com/Mohsinsiddi/dappos/internal/config"
)

// Open builds the Store selected by cfg.Store.Backend:
//
//   - firestore: REST API, project/api key/token from config
//   - postgres: database_url from config
//   - sqlite: local file (default: <config dir>/dapps.db)
//   - memory: nothing is persisted past the process
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	sc := cfg.Store
	switch sc.Backend {
	case "", "firestore":
		return NewFirestore(sc.ProjectID,
			WithEndpoint(sc.Endpoint),
			WithAPIKey(sc.APIKey),
			WithBearerToken(sc.BearerToken),
		), nil
	case "postgres":
		if sc.DatabaseURL == "" {
			return nil, fmt.Errorf("postgres store needs a database_url, run: dappos config set-store postgres --database-url <url>")
		}
		return NewPostgres(ctx, sc.DatabaseURL)
	case "sqlite":
		return NewSQLite(ctx, cfg.SQLitePath())
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", sc.Backend)
	}
}
