package anim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/splineanim/internal/anim"
	"github.com/san-kum/splineanim/internal/curve"
)

// identity samples the control points themselves.
type identity struct{}

func (identity) Evaluate(cp []float64) ([]float64, error) {
	return append([]float64(nil), cp...), nil
}

type failing struct {
	after int
	calls int
}

func (f *failing) Evaluate(cp []float64) ([]float64, error) {
	f.calls++
	if f.calls > f.after {
		return nil, errors.New("singular system")
	}
	return append([]float64(nil), cp...), nil
}

type shortModel struct{}

func (shortModel) Evaluate(cp []float64) ([]float64, error) {
	return cp[:1], nil
}

type nanModel struct{}

func (nanModel) Evaluate(cp []float64) ([]float64, error) {
	out := append([]float64(nil), cp...)
	out[0] = math.NaN()
	return out, nil
}

type counter struct{ n int }

func (c *counter) OnFrame(anim.Frame) { c.n++ }

func gridFor(n int) curve.Grid {
	return curve.Linspace(0, 1, n)
}

func activeValues(frames []anim.Frame, idx int) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.ControlPoints[idx]
	}
	return out
}

var _ = Describe("Driver", func() {
	var ctx context.Context

	BeforeEach(func() {
		ctx = context.Background()
	})

	Describe("a single-index round trip", func() {
		var frames []anim.Frame

		BeforeEach(func() {
			d, err := anim.New(identity{}, gridFor(2), []float64{1.0, 0.5}, anim.Config{
				Targets:        []int{0},
				RangeScale:     0.5,
				FramesPerIndex: 4,
			})
			Expect(err).NotTo(HaveOccurred())
			frames, err = d.Frames(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("emits every frame", func() {
			Expect(frames).To(HaveLen(4))
			for i, f := range frames {
				Expect(f.Index).To(Equal(i))
				Expect(f.Total).To(Equal(4))
				Expect(f.Segment).To(Equal(0))
				Expect(f.Active).To(Equal(0))
			}
		})

		It("follows the trajectory out and back", func() {
			Expect(activeValues(frames, 0)).To(Equal([]float64{1.0, -0.5, -0.5, 1.0}))
		})

		It("leaves the other control point alone", func() {
			Expect(activeValues(frames, 1)).To(HaveEach(0.5))
		})

		It("reports the curve evaluated at each frame", func() {
			for _, f := range frames {
				Expect(f.Samples).To(Equal(f.ControlPoints))
			}
		})

		It("keeps the axis bounds fixed", func() {
			for _, f := range frames {
				Expect(f.Bounds.Min).To(BeNumerically("~", -0.5, 1e-12))
				Expect(f.Bounds.Max).To(BeNumerically("~", 1.1, 1e-12))
			}
		})
	})

	Describe("a two-index run", func() {
		var frames []anim.Frame
		cp := []float64{0.8, 0.3, 0.6}

		BeforeEach(func() {
			d, err := anim.New(identity{}, gridFor(3), cp, anim.Config{
				Targets:        []int{2, 0},
				RangeScale:     0.5,
				FramesPerIndex: 10,
			})
			Expect(err).NotTo(HaveOccurred())
			frames, err = d.Frames(ctx)
			Expect(err).NotTo(HaveOccurred())
		})

		It("animates the targets in order", func() {
			Expect(frames).To(HaveLen(20))
			for i, f := range frames {
				if i < 10 {
					Expect(f.Segment).To(Equal(0))
					Expect(f.Active).To(Equal(2))
				} else {
					Expect(f.Segment).To(Equal(1))
					Expect(f.Active).To(Equal(0))
				}
			}
		})

		It("isolates each segment", func() {
			for i, f := range frames {
				if i < 10 {
					Expect(f.ControlPoints[0]).To(Equal(cp[0]))
				} else {
					Expect(f.ControlPoints[2]).To(Equal(cp[2]))
				}
				Expect(f.ControlPoints[1]).To(Equal(cp[1]))
			}
		})

		It("returns every index to its initial value", func() {
			Expect(frames[9].ControlPoints[2]).To(Equal(cp[2]))
			Expect(frames[19].ControlPoints[0]).To(Equal(cp[0]))
			Expect(frames[19].ControlPoints).To(Equal(cp))
		})

		It("keeps markers inside the axis bounds", func() {
			for _, f := range frames {
				for _, v := range f.ControlPoints {
					Expect(f.Bounds.Contains(v)).To(BeTrue(), "value %f outside %+v", v, f.Bounds)
				}
			}
		})
	})

	Describe("validation", func() {
		It("rejects an empty target set", func() {
			_, err := anim.New(identity{}, gridFor(2), []float64{1, 2}, anim.Config{
				RangeScale:     0.5,
				FramesPerIndex: 4,
			})
			Expect(err).To(MatchError(anim.ErrEmptyTargetSet))
		})

		DescribeTable("rejects out-of-range indices",
			func(idx int) {
				_, err := anim.New(identity{}, gridFor(2), []float64{1, 2}, anim.Config{
					Targets:        []int{0, idx},
					RangeScale:     0.5,
					FramesPerIndex: 4,
				})
				Expect(errors.Is(err, anim.ErrIndexOutOfRange)).To(BeTrue())
			},
			Entry("past the end", 2),
			Entry("negative", -1),
		)

		DescribeTable("rejects frame budgets that cannot round trip",
			func(frames int) {
				_, err := anim.New(identity{}, gridFor(2), []float64{1, 2}, anim.Config{
					Targets:        []int{0},
					RangeScale:     0.5,
					FramesPerIndex: frames,
				})
				Expect(errors.Is(err, anim.ErrInvalidInput)).To(BeTrue())
			},
			Entry("zero", 0),
			Entry("half length of one", 2),
			Entry("odd", 7),
		)
	})

	Describe("evaluation failures", func() {
		It("reports the frame and index that failed", func() {
			model := &failing{after: 3}
			d, err := anim.New(model, gridFor(2), []float64{1.0, 0.5}, anim.Config{
				Targets:        []int{1},
				RangeScale:     0.5,
				FramesPerIndex: 6,
			})
			Expect(err).NotTo(HaveOccurred())

			var seen int
			err = d.Run(ctx, func(anim.Frame) error {
				seen++
				return nil
			})
			Expect(seen).To(Equal(3))
			Expect(errors.Is(err, anim.ErrEvaluationFailure)).To(BeTrue())

			var fe *anim.FrameError
			Expect(errors.As(err, &fe)).To(BeTrue())
			Expect(fe.Frame).To(Equal(3))
			Expect(fe.Index).To(Equal(1))
		})

		It("rejects samples that do not match the grid", func() {
			d, err := anim.New(shortModel{}, gridFor(2), []float64{1.0, 0.5}, anim.Config{
				Targets:        []int{0},
				RangeScale:     0.5,
				FramesPerIndex: 4,
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = d.Next()
			Expect(errors.Is(err, anim.ErrEvaluationFailure)).To(BeTrue())
		})

		It("rejects non-finite samples", func() {
			d, err := anim.New(nanModel{}, gridFor(2), []float64{1.0, 0.5}, anim.Config{
				Targets:        []int{0},
				RangeScale:     0.5,
				FramesPerIndex: 4,
			})
			Expect(err).NotTo(HaveOccurred())
			_, err = d.Baseline()
			Expect(errors.Is(err, anim.ErrEvaluationFailure)).To(BeTrue())
		})
	})

	Describe("run control", func() {
		newDriver := func() *anim.Driver {
			d, err := anim.New(identity{}, gridFor(3), []float64{0.2, 0.9, 0.4}, anim.Config{
				Targets:        []int{0, 1, 2},
				RangeScale:     1.0,
				FramesPerIndex: 8,
			})
			Expect(err).NotTo(HaveOccurred())
			return d
		}

		It("is deterministic", func() {
			a, err := newDriver().Frames(ctx)
			Expect(err).NotTo(HaveOccurred())
			b, err := newDriver().Frames(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(b))
		})

		It("replays identically after a reset", func() {
			d := newDriver()
			first, err := d.Frames(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Done()).To(BeTrue())

			d.Reset()
			Expect(d.Done()).To(BeFalse())
			second, err := d.Frames(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(second).To(Equal(first))
		})

		It("refuses to step past the end", func() {
			d := newDriver()
			_, err := d.Frames(ctx)
			Expect(err).NotTo(HaveOccurred())
			_, err = d.Next()
			Expect(err).To(MatchError(anim.ErrFinished))
		})

		It("stops when the context is cancelled", func() {
			d := newDriver()
			cctx, cancel := context.WithCancel(ctx)
			var seen int
			err := d.Run(cctx, func(anim.Frame) error {
				seen++
				if seen == 5 {
					cancel()
				}
				return nil
			})
			Expect(err).To(MatchError(context.Canceled))
			Expect(seen).To(Equal(5))
		})

		It("propagates sink errors", func() {
			sinkErr := errors.New("disk full")
			err := newDriver().Run(ctx, func(f anim.Frame) error {
				if f.Index == 2 {
					return sinkErr
				}
				return nil
			})
			Expect(err).To(MatchError(sinkErr))
		})

		It("notifies observers", func() {
			d := newDriver()
			c := &counter{}
			d.AddObserver(c)
			Expect(d.Run(ctx, nil)).To(Succeed())
			Expect(c.n).To(Equal(d.Total()))
		})

		It("hands out independent snapshots", func() {
			d := newDriver()
			f, err := d.Next()
			Expect(err).NotTo(HaveOccurred())
			f.ControlPoints[1] = 42
			Expect(d.ControlPoints()[1]).To(Equal(0.9))
		})
	})

	Describe("the baseline frame", func() {
		It("evaluates the unperturbed vector", func() {
			cp := []float64{0.3, -0.2}
			d, err := anim.New(identity{}, gridFor(2), cp, anim.Config{
				Targets:        []int{1},
				RangeScale:     0.5,
				FramesPerIndex: 4,
			})
			Expect(err).NotTo(HaveOccurred())
			f, err := d.Baseline()
			Expect(err).NotTo(HaveOccurred())
			Expect(f.Index).To(Equal(-1))
			Expect(f.Active).To(Equal(-1))
			Expect(f.Samples).To(Equal(cp))
		})
	})
})

var _ = Describe("AxisBounds", func() {
	DescribeTable("bound policy",
		func(initial []float64, targets []int, scale, lo, hi float64) {
			b := anim.AxisBounds(initial, targets, scale)
			Expect(b.Min).To(BeNumerically("~", lo, 1e-12))
			Expect(b.Max).To(BeNumerically("~", hi, 1e-12))
		},
		Entry("positive target", []float64{1.0, 0.5}, []int{0}, 0.5, -0.5, 1.1),
		Entry("negative target", []float64{-0.8, 0.5}, []int{0}, 0.5, -0.9, 0.4),
		Entry("zero target", []float64{0.0, 0.5}, []int{0}, 0.5, 0.0, 0.6),
		Entry("mixed targets", []float64{-0.8, 0.5}, []int{0, 1}, 0.5, -0.9, 0.6),
		Entry("large scale", []float64{0.2, 0.9}, []int{1}, 2.0, -1.8, 1.0),
	)
})

var _ = Describe("FigureBounds", func() {
	It("starts at zero for positive data", func() {
		b := anim.FigureBounds([]float64{1.0, 0.56, 0.24})
		Expect(b.Min).To(Equal(0.0))
		Expect(b.Max).To(BeNumerically("~", 1.1, 1e-12))
	})

	It("extends below zero for negative data", func() {
		b := anim.FigureBounds([]float64{0.3, -0.4})
		Expect(b.Min).To(Equal(-0.4))
		Expect(b.Max).To(BeNumerically("~", 0.4, 1e-12))
	})
})
