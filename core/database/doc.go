// Package database handles database connections and schema inspection.
//
// It provides a wrapper around GORM to properly configure MySQL connections
// based on the application's configuration. SQLite (including :memory:) is
// supported for local runs and tests.
//
// # Connect
//
// The Connect function establishes a connection with sane pool settings and
// DSN-level timeouts, and verifies it with a ping before returning.
//
// # Schema Inspection
//
// The package includes tools to inspect the live schema, used by the migrate
// command's --verify mode to report drift between the deployed tables and the
// models the application expects.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "inventory_units")
package database
