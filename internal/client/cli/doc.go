// Package cli provides the interactive Family Vault command-line client.
//
// Owners sign up, sign in, manage inactivity settings, nominees, documents
// and grants. Nominees run the "emergency" command, which walks them
// through the emergency access flow without an account.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
