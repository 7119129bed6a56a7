// Package sqlite opens modernc.org/sqlite databases and applies the embedded
// goose migrations.
//
//	db, err := sqlite.Open(ctx, sqlite.Config{Path: filepath.Join(dataDir, "stove.db")})
//	if err != nil {
//		return err
//	}
//	if err := sqlite.Migrate(ctx, db, log); err != nil {
//		return err
//	}
//
// The driver is pure Go, so no cgo toolchain is needed. Databases are opened
// in WAL mode with foreign keys on and a single open connection.
package sqlite
