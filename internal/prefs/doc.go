// Package prefs persists the client's own preferences in a small BBolt
// database: clipboard clear policy, card sort order, active profile and
// workspace, backend endpoint.
//
// Only presentation-layer state lives here. Vault content, keys, and
// session secrets never touch this database; sessions go to the OS keyring
// and everything else stays behind the bridge.
package prefs
