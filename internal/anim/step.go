package anim

import (
	"fmt"
	"math"

	"github.com/san-kum/splineanim/internal/curve"
)

// Frame is an immutable snapshot of one animation step.
type Frame struct {
	Index         int
	Total         int
	Segment       int
	Active        int
	Value         float64
	Samples       []float64
	ControlPoints []float64
	Bounds        Bounds
}

// Step advances s by one frame: it writes the active trajectory value into
// the control-point vector, re-evaluates the model and returns a snapshot.
// On error the frame counter is not advanced.
func Step(model curve.Model, grid curve.Grid, s *State) (Frame, error) {
	if s.Done() {
		return Frame{}, ErrFinished
	}

	i := s.Frame
	segment, active, local := s.Schedule(i)
	value := s.Trajectories[segment][local]
	s.ControlPoints[active] = value

	samples, err := evaluate(model, grid, s.ControlPoints)
	if err != nil {
		return Frame{}, &FrameError{Frame: i, Index: active, Wrapped: err}
	}

	s.Frame++
	return Frame{
		Index:         i,
		Total:         s.Total,
		Segment:       segment,
		Active:        active,
		Value:         value,
		Samples:       samples,
		ControlPoints: append([]float64(nil), s.ControlPoints...),
		Bounds:        s.Bounds,
	}, nil
}

// Baseline evaluates the unperturbed vector. The returned frame has index -1
// and no active control point.
func Baseline(model curve.Model, grid curve.Grid, s *State) (Frame, error) {
	samples, err := evaluate(model, grid, s.Initial)
	if err != nil {
		return Frame{}, &FrameError{Frame: -1, Index: -1, Wrapped: err}
	}
	return Frame{
		Index:         -1,
		Total:         s.Total,
		Segment:       -1,
		Active:        -1,
		Samples:       samples,
		ControlPoints: append([]float64(nil), s.Initial...),
		Bounds:        s.Bounds,
	}, nil
}

func evaluate(model curve.Model, grid curve.Grid, cp []float64) ([]float64, error) {
	samples, err := model.Evaluate(cp)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEvaluationFailure, err)
	}
	if len(samples) != len(grid) {
		return nil, fmt.Errorf("%w: expected %d samples, got %d", ErrEvaluationFailure, len(grid), len(samples))
	}
	for j, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: non-finite sample at %d", ErrEvaluationFailure, j)
		}
	}
	return samples, nil
}
