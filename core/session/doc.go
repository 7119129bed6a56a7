// Package session holds the authenticated storefront identity and persists it
// between runs.
//
// A Session carries the bearer token, the numeric member number, how it was
// obtained and, when known, when it expires. Store keeps the current session
// in memory and writes it to a Backend:
//
//	store := session.NewStore(session.NewFileBackend(path), appSecret,
//		session.WithLogger(log),
//	)
//
//	if err := store.Save(ctx, sess); err != nil {
//		return err
//	}
//
//	sess, ok, err := store.Load(ctx)
//
// # Encryption at Rest
//
// The token and its expiry are sealed together with AES-256-GCM (pkg/secrets)
// under a key derived from the application secret and a user-scope key built
// from the OS account, hostname and machine id. A blob copied to another
// account or machine does not decrypt; Load then reports ok=false and logs a
// warning so the caller extracts a fresh session instead of failing. The
// member number is not a credential and is stored as plain text.
//
// Expiry is persisted with the token and checked on every Load, so an expired
// token is never handed out after a restart.
//
// # Backends
//
//   - MemoryBackend: process lifetime only
//   - FileBackend: one JSON document, replaced atomically
//   - RedisBackend: go-redis strings under a key prefix
//   - SQLiteBackend: the session_values table (see integration/database/sqlite)
//
// # Invalidate and Clear
//
// Invalidate drops the cached session and the stored token, keeping the
// member number; it is what a 401 triggers. Clear removes everything and is
// used on logout.
package session
