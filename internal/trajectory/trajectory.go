// Package trajectory builds the scripted round-trip paths that animated
// control points follow.
package trajectory

import (
	"errors"
	"fmt"

	"github.com/san-kum/splineanim/internal/curve"
)

// ErrInvalidInput indicates a frame budget too short to form a round trip.
var ErrInvalidInput = errors.New("trajectory: invalid input")

// MinHalfLength is the shortest ramp that can leave its start value and come
// back.
const MinHalfLength = 2

// Trajectory is the sequence of values one control point takes over a
// segment. It is a palindrome that starts and ends at the initial value.
type Trajectory []float64

// Build ramps linearly from initial to -rangeScale*initial over halfLength
// points, then walks the same ramp back. The turning value appears twice.
func Build(initial, rangeScale float64, halfLength int) (Trajectory, error) {
	if halfLength < MinHalfLength {
		return nil, fmt.Errorf("%w: half length must be at least %d, got %d", ErrInvalidInput, MinHalfLength, halfLength)
	}

	ramp := curve.Linspace(initial, -rangeScale*initial, halfLength)

	t := make(Trajectory, 2*halfLength)
	copy(t, ramp)
	for i, v := range ramp {
		t[len(t)-1-i] = v
	}
	return t, nil
}

// BuildAll builds one trajectory per target index, each framesPerIndex long.
func BuildAll(cp []float64, targets []int, rangeScale float64, framesPerIndex int) ([]Trajectory, error) {
	if framesPerIndex%2 != 0 {
		return nil, fmt.Errorf("%w: frames per index must be even, got %d", ErrInvalidInput, framesPerIndex)
	}

	out := make([]Trajectory, len(targets))
	for i, idx := range targets {
		if idx < 0 || idx >= len(cp) {
			return nil, fmt.Errorf("%w: target %d outside [0, %d)", ErrInvalidInput, idx, len(cp))
		}
		t, err := Build(cp[idx], rangeScale, framesPerIndex/2)
		if err != nil {
			return nil, err
		}
		out[i] = t
	}
	return out, nil
}

// First returns the starting value.
func (t Trajectory) First() float64 { return t[0] }

// Last returns the final value.
func (t Trajectory) Last() float64 { return t[len(t)-1] }

// Turn returns the extreme value reached at the midpoint.
func (t Trajectory) Turn() float64 { return t[len(t)/2] }
