package repository

import (
	"context"

	"github.com/wadjakorntonsri/selectify-server/pkg/adapters/repository/mongodb"
	"github.com/wadjakorntonsri/selectify-server/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/selectify-server/pkg/config"
	"github.com/wadjakorntonsri/selectify-server/pkg/ports"
)

// Open connects to the store addressed by cfg. SQLite and libSQL URLs get
// the embedded store, anything else is treated as a MongoDB URI.
func Open(ctx context.Context, cfg *config.Config) (ports.Store, error) {
	uri := cfg.StoreURI()
	if sqlite.IsSQLiteURL(uri) {
		return sqlite.NewSQLiteRepository(uri)
	}

	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	return mongodb.NewMongoRepository(ctx, uri, cfg.DBName)
}
