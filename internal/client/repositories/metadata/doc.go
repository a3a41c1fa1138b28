// Package metadata provides the key/value storage the token store persists
// into. Backends: SQLite (default, transactional), a JSON file, Redis and an
// in-memory map for tests and throwaway sessions.
package metadata
