// Package client talks to the remote auth API.
//
// # Overview
//
// The package provides:
//  1. Requester, a JSON request wrapper with a bounded per-call timeout
//     (DefaultTimeout) that never surfaces decode errors and normalizes
//     every failure into *APIError.
//  2. The Client contract and its HTTP implementation AuthAPI with Login,
//     Register and Logout against independently configured endpoints.
//     Response bodies are returned raw; their shape is interpreted by the
//     services package.
//  3. Local persistence bootstrap (InitDatabase, RunMigrations) for the
//     SQLite token store.
//
// # Error Handling
//
// Failures are *APIError values. IsTimeout marks an expired call (status
// 408), IsNetworkError marks a call that produced no HTTP status at all, and
// anything else carries the HTTP status and decoded body. APIError matches
// ErrUnavailable and ErrUnauthorized through errors.Is.
package client
