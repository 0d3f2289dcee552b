package anim

import (
	"fmt"

	"github.com/san-kum/splineanim/internal/trajectory"
)

// BoundsMargin is the headroom added beyond the initial control-point
// extremes.
const BoundsMargin = 0.1

type Config struct {
	Targets        []int
	RangeScale     float64
	FramesPerIndex int
}

func (c Config) TotalFrames() int {
	return c.FramesPerIndex * len(c.Targets)
}

// Validate checks the config against a control-point vector of length n.
func (c Config) Validate(n int) error {
	if len(c.Targets) == 0 {
		return ErrEmptyTargetSet
	}
	for _, idx := range c.Targets {
		if idx < 0 || idx >= n {
			return fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, idx, n)
		}
	}
	if c.FramesPerIndex < 2*trajectory.MinHalfLength || c.FramesPerIndex%2 != 0 {
		return fmt.Errorf("%w: frames per index must be even and at least %d, got %d",
			ErrInvalidInput, 2*trajectory.MinHalfLength, c.FramesPerIndex)
	}
	return nil
}

// Bounds is a vertical axis range.
type Bounds struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func (b Bounds) Contains(v float64) bool {
	return v >= b.Min && v <= b.Max
}

// AxisBounds computes the fixed axis range for a run. For every target with
// initial value k: if k >= 0 the range is [-scale*k, max(initial)+margin],
// otherwise [min(initial)-margin, -scale*k]. The result spans all targets.
func AxisBounds(initial []float64, targets []int, rangeScale float64) Bounds {
	lo, hi := initial[0], initial[0]
	for _, v := range initial {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	var b Bounds
	for i, idx := range targets {
		k := initial[idx]
		var lower, upper float64
		if k >= 0 {
			upper = hi + BoundsMargin
			lower = -rangeScale * k
		} else {
			upper = -rangeScale * k
			lower = lo - BoundsMargin
		}
		if i == 0 {
			b = Bounds{Min: lower, Max: upper}
			continue
		}
		b.Min = min(b.Min, lower)
		b.Max = max(b.Max, upper)
	}
	return b
}

// FigureBounds is the range for a static figure of the initial curve: from
// zero (or the lowest control point, if negative) up to the highest control
// point plus the margin.
func FigureBounds(initial []float64) Bounds {
	lo, hi := 0.0, initial[0]
	for _, v := range initial {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return Bounds{Min: lo, Max: hi + BoundsMargin}
}

// State is the mutable substrate of one animation run.
type State struct {
	ControlPoints []float64
	Initial       []float64
	Frame         int
	Total         int
	Targets       []int
	Trajectories  []trajectory.Trajectory
	FramesPer     int
	Bounds        Bounds
}

// NewState copies cp and prepares trajectories and bounds for cfg.
func NewState(cp []float64, cfg Config) (*State, error) {
	if err := cfg.Validate(len(cp)); err != nil {
		return nil, err
	}

	trajs, err := trajectory.BuildAll(cp, cfg.Targets, cfg.RangeScale, cfg.FramesPerIndex)
	if err != nil {
		return nil, err
	}

	return &State{
		ControlPoints: append([]float64(nil), cp...),
		Initial:       append([]float64(nil), cp...),
		Frame:         0,
		Total:         cfg.TotalFrames(),
		Targets:       append([]int(nil), cfg.Targets...),
		Trajectories:  trajs,
		FramesPer:     cfg.FramesPerIndex,
		Bounds:        AxisBounds(cp, cfg.Targets, cfg.RangeScale),
	}, nil
}

func (s *State) Done() bool {
	return s.Frame >= s.Total
}

// Schedule returns the segment, animated index and local frame for global
// frame i.
func (s *State) Schedule(i int) (segment, index, local int) {
	segment = i / s.FramesPer
	return segment, s.Targets[segment], i - s.FramesPer*segment
}

// Reset restores the initial vector and rewinds to frame 0.
func (s *State) Reset() {
	copy(s.ControlPoints, s.Initial)
	s.Frame = 0
}
