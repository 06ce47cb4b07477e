package store

import (
	"context"
	"fmt"
	"strings"
)

// Drivers understood by OpenDriver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDriver opens the repository named by driver. For SQLite the DSN is a
// file path; for PostgreSQL it is a connection string.
func OpenDriver(ctx context.Context, driver, dsn string) (Repository, error) {
	switch strings.ToLower(driver) {
	case "", DriverSQLite:
		s, err := Open(dsn)
		if err != nil {
			return nil, err
		}
		return s, nil
	case DriverPostgres, "postgresql", "pgx":
		s, err := OpenPostgres(ctx, PostgresConfig{DSN: dsn})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported driver %q", driver)
	}
}
