package kv

import (
	"context"
	"fmt"

	"github.com/sarawak-explorer/itinerary/internal/fsops"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend string

	// Dir is the directory of the file backend.
	Dir string

	// SQLitePath is the database file of the sqlite backend.
	SQLitePath string

	Redis RedisOptions
	Mongo MongoOptions
}

// Open creates the configured Store.
func Open(ctx context.Context, fs fsops.FS, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFile(fs, opts.Dir), nil
	case BackendSQLite:
		return NewSQLite(opts.SQLitePath)
	case BackendRedis:
		return NewRedis(ctx, opts.Redis)
	case BackendMongo:
		return NewMongo(ctx, opts.Mongo)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
