// Package curve provides the curve-evaluation backends used by the animation
// driver.
//
// The driver depends on a single capability:
//
//   - [Model]: Evaluate(controlPoints) -> sampled values at a fixed [Grid]
//
// Concrete backends:
//
//   - [BSpline]: clamped B-spline with a precomputed basis matrix
//   - [Interpolant]: interpolating splines (not-a-knot cubic, natural cubic,
//     Akima, piecewise linear) built on gonum's interp package
//
// # Example
//
//	spec := curve.DefaultSpec()
//	model, _ := curve.NewRegistry().Get("bsplines", spec)
//	ys, _ := model.Evaluate(cp)
//
// # Purity
//
// Every Model is a pure function of its input. Backends never retain or
// mutate the control-point slice they are given, so a driver may keep
// mutating its own vector between calls.
package curve
