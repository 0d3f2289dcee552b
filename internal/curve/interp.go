package curve

import (
	"fmt"

	"gonum.org/v1/gonum/interp"
)

// Interpolant is an interpolating spline through (ControlX[i], cp[i]).
// A fresh fitter is built for every call, so no fit state survives between
// evaluations.
type Interpolant struct {
	name   string
	newFit func() interp.FittablePredictor
	xs     Grid
	grid   Grid
}

func newInterpolant(name string, spec Spec, minCP int, fn func() interp.FittablePredictor) (*Interpolant, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	if spec.NumCP < minCP {
		return nil, fmt.Errorf("%w: %s needs at least %d control points, got %d", ErrBadSpec, name, minCP, spec.NumCP)
	}
	return &Interpolant{
		name:   name,
		newFit: fn,
		xs:     spec.ControlX(),
		grid:   spec.Grid(),
	}, nil
}

// NewCubic returns a not-a-knot cubic spline.
func NewCubic(spec Spec) (*Interpolant, error) {
	return newInterpolant("cubic", spec, 4, func() interp.FittablePredictor { return &interp.NotAKnotCubic{} })
}

func NewNaturalCubic(spec Spec) (*Interpolant, error) {
	return newInterpolant("natural", spec, 3, func() interp.FittablePredictor { return &interp.NaturalCubic{} })
}

func NewAkima(spec Spec) (*Interpolant, error) {
	return newInterpolant("akima", spec, 2, func() interp.FittablePredictor { return &interp.AkimaSpline{} })
}

func NewLinear(spec Spec) (*Interpolant, error) {
	return newInterpolant("linear", spec, 2, func() interp.FittablePredictor { return &interp.PiecewiseLinear{} })
}

func (s *Interpolant) Evaluate(cp []float64) ([]float64, error) {
	if err := checkLen(cp, len(s.xs)); err != nil {
		return nil, err
	}

	fit := s.newFit()
	ys := append([]float64(nil), cp...)
	if err := fit.Fit(s.xs, ys); err != nil {
		return nil, fmt.Errorf("%s fit: %w", s.name, err)
	}

	out := make([]float64, len(s.grid))
	for i, x := range s.grid {
		out[i] = fit.Predict(x)
	}
	return out, nil
}

func (s *Interpolant) String() string { return s.name }
