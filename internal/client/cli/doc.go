// Package cli provides the interactive rentdesk command-line client.
//
// It wires configuration, the local session store, the API client and the
// services, then runs a REPL. A session saved by a previous run is restored
// at startup, so a signed-in user stays signed in across restarts.
//
// Commands:
//   - register / login / logout / whoami
//   - list, show, create, edit, delete: manage the account's apartments
//   - upload: send an image and print its URL
//   - dashboard: counts per status and the most recent listings
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
