package curve

import (
	"errors"
	"fmt"
)

var (
	// ErrControlPointCount indicates a control-point vector of the wrong length.
	ErrControlPointCount = errors.New("curve: control point count mismatch")

	// ErrBadSpec indicates an unusable curve specification.
	ErrBadSpec = errors.New("curve: invalid spec")
)

// Model evaluates an interpolated curve at a fixed sample grid.
type Model interface {
	Evaluate(cp []float64) ([]float64, error)
}

// Grid is an ordered set of x-locations.
type Grid []float64

// Linspace returns n evenly spaced values from start to end inclusive.
// The endpoints are exact.
func Linspace(start, end float64, n int) Grid {
	if n <= 0 {
		return Grid{}
	}
	g := make(Grid, n)
	if n == 1 {
		g[0] = start
		return g
	}
	step := (end - start) / float64(n-1)
	for i := range g {
		g[i] = start + float64(i)*step
	}
	g[n-1] = end
	return g
}

// Min returns the first grid location.
func (g Grid) Min() float64 {
	if len(g) == 0 {
		return 0
	}
	return g[0]
}

// Max returns the last grid location.
func (g Grid) Max() float64 {
	if len(g) == 0 {
		return 0
	}
	return g[len(g)-1]
}

const (
	DefaultNumCP   = 10
	DefaultOrder   = 4
	DefaultSamples = 101
)

// Spec describes a spline problem: how many control points, where they sit
// on the x axis, and where the curve is sampled.
type Spec struct {
	Method  string  `yaml:"method" json:"method"`
	NumCP   int     `yaml:"num_cp" json:"num_cp"`
	XStart  float64 `yaml:"x_start" json:"x_start"`
	XEnd    float64 `yaml:"x_end" json:"x_end"`
	Order   int     `yaml:"order" json:"order"`
	Samples int     `yaml:"samples" json:"samples"`
}

func DefaultSpec() Spec {
	return Spec{
		Method:  "bsplines",
		NumCP:   DefaultNumCP,
		XStart:  0.0,
		XEnd:    1.0,
		Order:   DefaultOrder,
		Samples: DefaultSamples,
	}
}

func (s Spec) Validate() error {
	if s.NumCP < 2 {
		return fmt.Errorf("%w: need at least 2 control points, got %d", ErrBadSpec, s.NumCP)
	}
	if s.Samples < 2 {
		return fmt.Errorf("%w: need at least 2 samples, got %d", ErrBadSpec, s.Samples)
	}
	if s.XEnd <= s.XStart {
		return fmt.Errorf("%w: x_end (%g) must exceed x_start (%g)", ErrBadSpec, s.XEnd, s.XStart)
	}
	return nil
}

// ControlX returns the abscissae of the control points.
func (s Spec) ControlX() Grid {
	return Linspace(s.XStart, s.XEnd, s.NumCP)
}

// Grid returns the sample locations, spread over the control-point span.
func (s Spec) Grid() Grid {
	return Linspace(s.XStart, s.XEnd, s.Samples)
}

// EffectiveOrder is the B-spline order actually used: min(NumCP, Order).
func (s Spec) EffectiveOrder() int {
	order := s.Order
	if order <= 0 {
		order = DefaultOrder
	}
	if s.NumCP < order {
		return s.NumCP
	}
	return order
}

func checkLen(cp []float64, n int) error {
	if len(cp) != n {
		return fmt.Errorf("%w: expected %d, got %d", ErrControlPointCount, n, len(cp))
	}
	return nil
}
