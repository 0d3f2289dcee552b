// Package anim drives control-point animations over a curve model.
//
// The package separates the mutable animation substrate from the stepping
// logic:
//
//   - [State]: the control-point vector, frame counter, trajectories and the
//     fixed axis bounds for one run
//   - [Step]: advances a State by one frame and returns the [Frame] snapshot
//   - [Driver]: owns a State and runs it to completion
//
// # Frame schedule
//
// Each target index is animated for its own contiguous block of
// FramesPerIndex frames, in the order the targets were given. Global frame i
// belongs to segment i/FramesPerIndex; only that segment's index moves. Every
// trajectory returns to its starting value, so once a segment ends its index
// is back at its initial value.
//
// # Axis bounds
//
// Bounds are computed once from the initial vector (see [AxisBounds]) and
// stay fixed for the whole run so the vertical axis doesn't jitter.
//
// # Thread Safety
//
// A State is mutated in place and must not be shared across goroutines while
// a run is in progress. Frames are independent snapshots and may be handed to
// other goroutines freely.
package anim
