// Package vaultclient wraps the bridge command surface with typed calls.
//
// Each method is a pass-through to one named backend command. The package
// adds no behavior of its own beyond argument shaping and result decoding;
// the backend owns all vault semantics.
package vaultclient
