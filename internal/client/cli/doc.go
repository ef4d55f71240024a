// Package cli provides the interactive voicedesk command-line client.
//
// It wires configuration, the local token store, the API gateway and the
// session manager, then runs a REPL whose command set depends on the active
// view: the auth view before login, the user view for regular accounts and
// the admin view for administrators. A forced logout (any 401 from the
// backend) drops the REPL back to the auth view on the next prompt.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
