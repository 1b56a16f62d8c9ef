package config

import (
	"fmt"

	"github.com/pspoerri/tileforge/internal/planner"
	"github.com/pspoerri/tileforge/internal/pmtiles"
	"github.com/pspoerri/tileforge/internal/store"
)

// NewBackendOpener builds a planner.BackendOpener from the configured
// backends, dispatching on Backend.Type. "file" and "object" map onto
// store.FileContext/store.ObjectContext; "pmtiles" opens the level's Root as
// a PMTiles archive via pmtiles.Context, so a level stored in a PMTiles
// archive can be served without ever unpacking the archive onto a
// filesystem.
func NewBackendOpener(srv *Server) planner.BackendOpener {
	return func(backend, root string) (string, func() (store.Context, error)) {
		key := backend + "|" + root
		cfg, ok := srv.Backends[backend]
		if !ok {
			return key, func() (store.Context, error) {
				return nil, fmt.Errorf("config: unknown backend %q", backend)
			}
		}

		switch cfg.Type {
		case "pmtiles":
			return key, func() (store.Context, error) {
				return pmtiles.NewContext(root), nil
			}
		case "object":
			bucket := cfg.Bucket
			if root != "" {
				bucket = root
			}
			return key, func() (store.Context, error) {
				return store.NewObjectContext(cfg.Endpoint, bucket, cfg.AccessKeyID, cfg.SecretAccessKey, cfg.UseSSL), nil
			}
		default:
			return key, func() (store.Context, error) {
				return store.NewFileContext(root), nil
			}
		}
	}
}
