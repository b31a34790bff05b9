// Package bridge is the client side of the backend command bridge.
//
// Every vault operation in this repository goes through Invoke: a named
// command with JSON-shaped arguments posted to the local backend process.
// The client never sees vault storage, encryption, or backup internals,
// only the DTOs the backend returns.
package bridge
