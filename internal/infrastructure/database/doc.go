// Package database provides SQLite connectivity for the master data store.
//
// This package manages:
//   - Connection setup with WAL mode and busy timeout
//   - Versioned schema migrations embedded in the binary
//   - Health checks and lifecycle management
//
// Tables are created STRICT so SQLite rejects values of the wrong type.
// All queries use parameterised statements.
//
// Usage:
//
//	db, err := database.Open(database.ConfigFrom(cfg.Database))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// Migration files are named YYYYMMDD_HHMMSS_description.up.sql with a
// matching .down.sql, and are embedded by the top-level migrations package.
package database
