// Package bridgestub is an in-memory stand-in for the native backend.
//
// It implements the bridge command surface against plain maps so the
// client can be developed and tested without a real backend process. Run
// it with `passdesk devserver`. Nothing is encrypted and nothing survives
// a restart; it exists for development only.
package bridgestub
