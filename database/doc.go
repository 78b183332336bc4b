// Package database provides a GORM-based database component with connection pooling,
// health checks, transactions, and migration support.
//
// # Architecture
//
// The database module follows gokit's component pattern with a driver-agnostic design.
// Users provide the database driver (postgres, mysql, sqlite, etc.) via WithDriver(),
// keeping the module lightweight and flexible.
//
// # Quick Start
//
// Create and start the database component in your application:
//
//	import (
//	    "github.com/kbukum/gokit/database"
//	    "gorm.io/driver/postgres"
//	)
//
//	cfg := database.Config{Enabled: true, DSN: "host=localhost user=myuser dbname=mydb"}
//	comp := database.NewComponent(cfg, log).WithDriver(postgres.Open)
//	if err := comp.Start(ctx); err != nil {
//	    // handle error
//	}
//
// The DB wrapper, error translation to AppError (errors.go) and BaseModel
// (models.go) live in this package itself.
//
// # Subpackages
//
//   - migration: File-based migrations using golang-migrate, and a GORM-based MigrationRunner
//   - query: PostgREST-style query builder with pagination, filters and facets
//   - testutil: Testing utilities for database-dependent tests
//
// # Enabled Flag
//
// Config.Enabled only affects Validate, which skips every check when it is
// false. Component.Start connects regardless of Enabled, and Health has no
// "disabled" status: a component that has not been started reports unhealthy.
//
// See component.go for full lifecycle documentation.
package database
