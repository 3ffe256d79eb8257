// Package merge flattens the eligible tracks of a timeline into one baked
// clip for a target rig.
//
// For every property binding touched by an eligible track, the Merger
// samples each contributing clip on the frame grid, combines the samples
// according to the binding's class, and resamples the combined curve onto
// the grid. Failures local to one property are recorded on the MergeResult
// and the run continues.
//
// Combination rules:
//   - Ordinary bindings blend. Contributors on the same track are averaged
//     by blend weight; tracks then layer bottom-up in merge order, each
//     mixing over the accumulated value by its total weight (capped at 1).
//   - Shape-weight and muscle-axis bindings take the value of the highest
//     ranked active contributor.
//
// A Merger is single-threaded and synchronous. Cancellation is honored
// between tracks and between properties, never mid-curve.
package merge
