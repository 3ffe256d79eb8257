// Package ir provides the canonical value model used to content-address
// baked clips.
//
// Baked output is identified by hashing an RFC 8785 canonical JSON rendering
// of the clip. The value model carries no float type: sample times and values
// enter the IR as shortest round-trip decimal strings via Number, so two runs
// that bake identical curves produce byte-identical canonical forms on every
// platform.
//
// ir imports nothing internal.
package ir
