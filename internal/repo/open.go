package repo

import (
	"context"
	"fmt"

	"github.com/Skotchmaster/artshop/pkg/db"
)

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// Open connects the configured backend. The returned func releases it.
func Open(ctx context.Context, driver, dsn, mongoDatabase string) (Repo, func() error, error) {
	switch driver {
	case DriverMongo:
		client, database, err := db.OpenMongo(ctx, dsn, mongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		return &MongoRepo{DB: database}, func() error { return db.CloseMongo(client) }, nil
	case DriverPostgres:
		gdb, err := db.Open(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() error {
			sqlDB, err := gdb.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return &GormRepo{DB: gdb}, closeFn, nil
	default:
		return nil, nil, fmt.Errorf("unknown DB_DRIVER %q", driver)
	}
}
