// Package anim provides the curve primitives shared by every stage of the
// bake pipeline.
//
// This package contains value types only. All other internal packages
// import anim; anim imports nothing internal.
//
// Key design constraints:
//   - Curves are immutable once built; evaluation never mutates state
//   - Keys are held in ascending time order (stable for equal times)
//   - A nil *Curve is a legal "binding present, no keys" value
package anim
