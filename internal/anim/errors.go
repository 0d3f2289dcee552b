package anim

import (
	"errors"
	"fmt"

	"github.com/san-kum/splineanim/internal/trajectory"
)

// Domain errors for animation runs.
var (
	// ErrInvalidInput indicates a frame budget that cannot form a round trip.
	ErrInvalidInput = trajectory.ErrInvalidInput

	// ErrEmptyTargetSet indicates a run with no control points to animate.
	ErrEmptyTargetSet = errors.New("anim: no target indices")

	// ErrIndexOutOfRange indicates a target outside the control-point vector.
	ErrIndexOutOfRange = errors.New("anim: target index out of range")

	// ErrEvaluationFailure indicates the curve model failed or returned
	// malformed samples.
	ErrEvaluationFailure = errors.New("anim: curve evaluation failed")

	// ErrFinished indicates a step past the last frame.
	ErrFinished = errors.New("anim: animation already finished")
)

// FrameError wraps an error with the frame that triggered it.
type FrameError struct {
	Frame   int
	Index   int
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("frame %d (cp[%d]): %v", e.Frame, e.Index, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
