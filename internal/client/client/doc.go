// Package client contains the transport side of gatepass.
//
// # Overview
//
// The package provides:
//  1. The API contract used by the services (see the Client interface):
//     login/logout/token validation, pass records, search and CSV export,
//     user provisioning and the project catalog.
//  2. A JSON-over-HTTP implementation (see HTTPClient) that stamps every
//     request with the current auth headers and a request id, and maps
//     HTTP failures to sentinel errors.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite session database and applies the embedded goose migrations.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable. Non-2xx answers are
// *APIError values carrying the server's message verbatim; errors.Is matches
// them against ErrUnauthorized, ErrForbidden and ErrNotFound.
//
// All operations accept context.Context and honor cancellation.
package client
