// Package cli is the interactive front end of the tavern auth client.
//
// It wires configuration, the token store backend, the HTTP auth API and
// the auth service, then runs a small REPL with register, login, logout
// and status commands. Every action prints the single message the auth
// service produced for it.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
