// Package client contains the client-side building blocks for talking to
// the rentdesk backend.
//
// # Overview
//
//  1. HTTPClient: a JSON-over-HTTP client bound to one base URL. It adds the
//     bearer token from a TokenSource, tags each request with an
//     X-Request-ID and turns every failure into an *APIError.
//  2. Decode: typed decoding of a response with validation on parse.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) that opens
//     the SQLite session database and applies the embedded goose migrations.
//
// # Error Handling
//
// Transport failures carry StatusCode 0. Callers match common conditions
// with errors.Is: ErrUnavailable, ErrUnauthorized, ErrNotFound.
//
// Requests are never retried and the client sets no timeout of its own;
// pass a context with a deadline instead.
package client
