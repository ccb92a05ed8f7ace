// Package persist provides session.Persistence adapters: in-memory, a JSON
// file, SQLite and Redis.
package persist

import (
	"context"
	"errors"
	"fmt"

	"github.com/rshade/ecoshopper/internal/config"
	"github.com/rshade/ecoshopper/internal/logging"
	"github.com/rshade/ecoshopper/internal/session"
)

// ErrUnknownBackend is returned by Open for an unrecognised backend name.
var ErrUnknownBackend = errors.New("unknown storage backend")

// Backend is a Persistence that holds resources until closed.
type Backend interface {
	session.Persistence
	Close() error
}

// Open builds the backend selected by cfg.
func Open(ctx context.Context, cfg *config.Config) (Backend, error) {
	log := logging.FromContext(ctx)

	switch cfg.Storage.Backend {
	case config.BackendMemory:
		return NewMemory(), nil
	case config.BackendFile, config.BackendSQLite:
		path, err := cfg.ResolvedStoragePath()
		if err != nil {
			return nil, fmt.Errorf("resolving storage path: %w", err)
		}
		log.Debug().Ctx(ctx).
			Str("component", "persist").
			Str("backend", cfg.Storage.Backend).
			Str("path", path).
			Msg("opening session storage")
		if cfg.Storage.Backend == config.BackendSQLite {
			return OpenSQLite(ctx, path)
		}
		return NewFile(path), nil
	case config.BackendRedis:
		log.Debug().Ctx(ctx).
			Str("component", "persist").
			Str("backend", cfg.Storage.Backend).
			Str("namespace", cfg.Storage.Namespace).
			Msg("opening session storage")
		return OpenRedis(ctx, cfg.Storage.RedisURL, cfg.Storage.Namespace)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Storage.Backend)
	}
}
