// Package clipguard copies secrets to the system clipboard and wipes them
// after a bounded time.
//
// A Guard holds at most one pending clear at any instant. Copying a new
// secret cancels and replaces the previous pending clear, so there is never
// more than one armed timer per guard. The wipe is conditional: when the
// timer fires, the clipboard is overwritten only if it still holds exactly
// the value the guard put there. Content the user copied from elsewhere in
// the meantime is never touched.
//
// Clipboard access and time go through the Port and Clock interfaces so
// tests can run against an in-memory clipboard and a manual clock.
package clipguard
