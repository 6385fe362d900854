// Package cli provides the interactive eatery account command-line client.
//
// It connects to the account server over gRPC and runs a REPL with the
// account operations: register, login, verify, me, email, password and
// logout. The session token received at login is kept in memory and
// attached to calls that need an identity.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
