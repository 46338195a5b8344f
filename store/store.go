// Package store provides the durable blob stores holding the holdings
// collection: a directory of JSON files, or a SQLite database.
package store

import (
	"context"
	"fmt"
	"io"

	"github.com/etnz/komorebi"
)

// Drivers names the available backends.
const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Store is a blob store that must be closed after use.
type Store interface {
	komorebi.BlobStore
	io.Closer
}

// Open opens the store of the given driver at path.
func Open(ctx context.Context, driver, path string) (Store, error) {
	switch driver {
	case "", DriverFile:
		return OpenFile(path)
	case DriverSQLite:
		return OpenSQLite(ctx, path)
	}
	return nil, fmt.Errorf("unknown store driver %q, want %q or %q", driver, DriverFile, DriverSQLite)
}
