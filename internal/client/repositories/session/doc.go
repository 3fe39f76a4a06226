// Package session provides the key/value stores behind the session manager.
//
// # Overview
//
// Repository is a tiny byte-valued key/value contract. Three
// implementations exist:
//
//   - MemoryRepository: process-lifetime storage, lost on exit.
//   - SQLiteRepository: the durable scope, a "session" table reached through
//     dbx.DBTX (either *sql.DB or *sql.Tx).
//   - SealedRepository: wraps another Repository and encrypts values with a
//     cryptox.Sealer before they reach it.
//
// Get returns (nil, nil) for a missing key in every implementation.
//
// Typical Usage
//
//	durable := session.NewSealedRepository(session.NewSQLiteRepository(db), sealer)
//	_ = durable.Set(ctx, "token", []byte(tok))
//	v, _ := durable.Get(ctx, "token")
package session
