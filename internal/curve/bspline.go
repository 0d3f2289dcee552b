package curve

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// BSpline is a clamped B-spline whose control-point coefficients are the
// input vector. The basis is evaluated once for the sample grid, so each
// Evaluate call is a single matrix-vector product.
type BSpline struct {
	order int
	knots []float64
	basis *mat.Dense // samples x numCP
	n     int
}

func NewBSpline(spec Spec) (*BSpline, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	n := spec.NumCP
	k := spec.EffectiveOrder()
	knots := clampedKnots(n, k, spec.XStart, spec.XEnd)
	grid := spec.Grid()

	data := make([]float64, 0, len(grid)*n)
	for _, x := range grid {
		data = append(data, basisRow(knots, k, n, x)...)
	}

	return &BSpline{
		order: k,
		knots: knots,
		basis: mat.NewDense(len(grid), n, data),
		n:     n,
	}, nil
}

func (b *BSpline) Evaluate(cp []float64) ([]float64, error) {
	if err := checkLen(cp, b.n); err != nil {
		return nil, err
	}

	// cp is copied so the caller may keep mutating its vector.
	coeffs := mat.NewVecDense(b.n, append([]float64(nil), cp...))
	rows, _ := b.basis.Dims()

	out := mat.NewVecDense(rows, nil)
	out.MulVec(b.basis, coeffs)
	return append([]float64(nil), out.RawVector().Data...), nil
}

func (b *BSpline) Order() int        { return b.order }
func (b *BSpline) Knots() []float64  { return append([]float64(nil), b.knots...) }
func (b *BSpline) NumControl() int   { return b.n }
func (b *BSpline) String() string    { return fmt.Sprintf("bspline(order=%d, n=%d)", b.order, b.n) }

// clampedKnots builds an open-uniform knot vector of length n+k with k
// repeated knots at each end.
func clampedKnots(n, k int, start, end float64) []float64 {
	knots := make([]float64, 0, n+k)
	for i := 0; i < k; i++ {
		knots = append(knots, start)
	}
	interior := n - k
	for j := 1; j <= interior; j++ {
		knots = append(knots, start+(end-start)*float64(j)/float64(interior+1))
	}
	for i := 0; i < k; i++ {
		knots = append(knots, end)
	}
	return knots
}

// basisRow evaluates all n basis functions of order k at x using the
// Cox-de Boor recurrence restricted to the non-zero span.
func basisRow(knots []float64, k, n int, x float64) []float64 {
	row := make([]float64, n)
	p := k - 1

	if x >= knots[n] {
		row[n-1] = 1
		return row
	}
	if x <= knots[p] {
		row[0] = 1
		return row
	}

	span := p
	for span < n-1 && x >= knots[span+1] {
		span++
	}

	nb := make([]float64, k)
	left := make([]float64, k)
	right := make([]float64, k)
	nb[0] = 1
	for j := 1; j <= p; j++ {
		left[j] = x - knots[span+1-j]
		right[j] = knots[span+j] - x
		saved := 0.0
		for r := 0; r < j; r++ {
			tmp := nb[r] / (right[r+1] + left[j-r])
			nb[r] = saved + right[r+1]*tmp
			saved = left[j-r] * tmp
		}
		nb[j] = saved
	}

	for i := 0; i <= p; i++ {
		row[span-p+i] = nb[i]
	}
	return row
}
