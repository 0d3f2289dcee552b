package anim

import (
	"context"

	"go.uber.org/zap"

	"github.com/san-kum/splineanim/internal/curve"
)

// Observer is notified after every successful frame.
type Observer interface {
	OnFrame(f Frame)
}

// Driver runs a single animation to completion.
type Driver struct {
	model     curve.Model
	grid      curve.Grid
	state     *State
	observers []Observer
	log       *zap.Logger
}

func New(model curve.Model, grid curve.Grid, cp []float64, cfg Config) (*Driver, error) {
	state, err := NewState(cp, cfg)
	if err != nil {
		return nil, err
	}
	return &Driver{
		model:     model,
		grid:      grid,
		state:     state,
		observers: make([]Observer, 0),
		log:       zap.NewNop(),
	}, nil
}

func (d *Driver) AddObserver(o Observer)    { d.observers = append(d.observers, o) }
func (d *Driver) SetLogger(log *zap.Logger) { d.log = log }

func (d *Driver) Total() int       { return d.state.Total }
func (d *Driver) Bounds() Bounds   { return d.state.Bounds }
func (d *Driver) Grid() curve.Grid { return d.grid }
func (d *Driver) Done() bool       { return d.state.Done() }

func (d *Driver) ControlPoints() []float64 {
	return append([]float64(nil), d.state.ControlPoints...)
}

// Baseline evaluates the initial, unperturbed configuration.
func (d *Driver) Baseline() (Frame, error) {
	return Baseline(d.model, d.grid, d.state)
}

// Next produces the next frame.
func (d *Driver) Next() (Frame, error) {
	f, err := Step(d.model, d.grid, d.state)
	if err != nil {
		return Frame{}, err
	}
	for _, o := range d.observers {
		o.OnFrame(f)
	}
	return f, nil
}

// Run steps through every remaining frame, handing each to sink in order.
// It stops on the first evaluation error, sink error or context cancellation.
func (d *Driver) Run(ctx context.Context, sink func(Frame) error) error {
	d.log.Debug("animation started",
		zap.Int("frames", d.state.Total),
		zap.Ints("targets", d.state.Targets),
		zap.Float64("ymin", d.state.Bounds.Min),
		zap.Float64("ymax", d.state.Bounds.Max),
	)

	for !d.state.Done() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		f, err := d.Next()
		if err != nil {
			d.log.Warn("animation aborted", zap.Int("frame", d.state.Frame), zap.Error(err))
			return err
		}
		if sink == nil {
			continue
		}
		if err := sink(f); err != nil {
			return err
		}
	}

	d.log.Debug("animation finished", zap.Int("frames", d.state.Total))
	return nil
}

// Frames runs the remaining animation and collects every frame.
func (d *Driver) Frames(ctx context.Context) ([]Frame, error) {
	frames := make([]Frame, 0, d.state.Total-d.state.Frame)
	err := d.Run(ctx, func(f Frame) error {
		frames = append(frames, f)
		return nil
	})
	return frames, err
}

// Reset rewinds the driver to frame 0 with the initial vector restored.
func (d *Driver) Reset() {
	d.state.Reset()
}
