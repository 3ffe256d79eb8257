// Package timeline models the authored track/clip hierarchy consumed by a bake.
//
// Tracks live in an arena addressed by TrackID. Override tracks are stored as
// index lists on their parent rather than back-references, so a Timeline is a
// plain forest with no cyclic ownership.
//
// All values here are read-only during a merge run. Absent placement or
// binding data is represented by nil pointers and every accessor returns the
// documented default instead of failing.
package timeline
