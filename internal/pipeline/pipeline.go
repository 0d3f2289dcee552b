// Package pipeline renders an animation concurrently while keeping the
// encoded output in frame order.
//
// The driver steps serially and hands immutable frame snapshots to a pool of
// render workers. A single writer buffers out-of-order images and feeds the
// encoder strictly by frame index. The first error from any stage cancels
// the others and aborts the encoder.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/san-kum/splineanim/internal/anim"
	"github.com/san-kum/splineanim/internal/system"
	"github.com/san-kum/splineanim/internal/video"
)

var ErrIncomplete = errors.New("pipeline: encoder received fewer frames than the animation produced")

// Rasterizer converts a frame to an image. Implementations must be safe for
// concurrent use.
type Rasterizer interface {
	Render(f anim.Frame) (*image.RGBA, error)
}

type Job struct {
	Driver   *anim.Driver
	Renderer Rasterizer
	Encoder  video.Encoder

	// Pool receives images back after they are encoded. Optional.
	Pool     *system.ImagePool
	Workers  int
	Progress func(done, total int)
	Logger   *zap.Logger
}

type Result struct {
	Frames  []anim.Frame
	Encoded int
	Width   int
	Height  int
	Elapsed time.Duration
}

type rendered struct {
	index int
	img   *image.RGBA
}

func Run(ctx context.Context, job Job) (*Result, error) {
	log := job.Logger
	if log == nil {
		log = zap.NewNop()
	}
	workers := max(1, job.Workers)
	total := job.Driver.Total()
	start := time.Now()

	log.Info("pipeline started", zap.Int("frames", total), zap.Int("workers", workers))

	g, gctx := errgroup.WithContext(ctx)
	frames := make(chan anim.Frame, workers)
	images := make(chan rendered, workers*2)
	result := &Result{Frames: make([]anim.Frame, 0, total)}

	g.Go(func() error {
		defer close(frames)
		return job.Driver.Run(gctx, func(f anim.Frame) error {
			result.Frames = append(result.Frames, f)
			select {
			case frames <- f:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for f := range frames {
				img, err := job.Renderer.Render(f)
				if err != nil {
					return fmt.Errorf("render frame %d: %w", f.Index, err)
				}
				select {
				case images <- rendered{index: f.Index, img: img}:
				case <-gctx.Done():
					return gctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(images)
	}()

	var begun bool
	g.Go(func() error {
		pending := make(map[int]*image.RGBA)
		next := 0
		for r := range images {
			if err := gctx.Err(); err != nil {
				return err
			}
			pending[r.index] = r.img
			for {
				img, ok := pending[next]
				if !ok {
					break
				}
				delete(pending, next)

				if !begun {
					b := img.Bounds()
					if err := job.Encoder.Begin(b.Dx(), b.Dy()); err != nil {
						return fmt.Errorf("start encoder: %w", err)
					}
					begun = true
					result.Width, result.Height = b.Dx(), b.Dy()
				}
				if err := job.Encoder.WriteFrame(img); err != nil {
					return fmt.Errorf("encode frame %d: %w", next, err)
				}
				job.Pool.Put(img)

				next++
				result.Encoded = next
				if job.Progress != nil {
					job.Progress(next, total)
				}
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if begun {
			job.Encoder.Abort()
		}
		log.Warn("pipeline aborted", zap.Int("encoded", result.Encoded), zap.Error(err))
		return nil, err
	}

	if result.Encoded != total {
		if begun {
			job.Encoder.Abort()
		}
		return nil, fmt.Errorf("%w: %d of %d", ErrIncomplete, result.Encoded, total)
	}
	if err := job.Encoder.Close(); err != nil {
		return nil, fmt.Errorf("finalize output: %w", err)
	}

	result.Elapsed = time.Since(start)
	log.Info("pipeline finished",
		zap.Int("frames", result.Encoded),
		zap.Duration("elapsed", result.Elapsed),
	)
	return result, nil
}
