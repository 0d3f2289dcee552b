package video

import (
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"math"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// GIFEncoder buffers paletted frames and writes a looping GIF on Close.
type GIFEncoder struct {
	Path string
	opts Options

	anim    *gif.GIF
	w, h    int
	started bool
}

func NewGIF(path string, opts Options) *GIFEncoder {
	return &GIFEncoder{Path: path, opts: opts.withDefaults()}
}

// FrameDelay is the per-frame delay in 1/100 s for fps, at least 1.
func FrameDelay(fps int) int {
	return max(1, int(math.Round(100/float64(fps))))
}

func (e *GIFEncoder) Begin(w, h int) error {
	e.w, e.h = w, h
	e.anim = &gif.GIF{LoopCount: 0}
	e.started = true
	return nil
}

func (e *GIFEncoder) WriteFrame(img image.Image) error {
	if !e.started {
		return ErrNotStarted
	}
	if err := checkSize(img, e.w, e.h); err != nil {
		return err
	}

	b := img.Bounds()
	p := image.NewPaletted(image.Rect(0, 0, b.Dx(), b.Dy()), palette.Plan9)
	draw.Draw(p, p.Bounds(), img, b.Min, draw.Src)

	e.anim.Image = append(e.anim.Image, p)
	e.anim.Delay = append(e.anim.Delay, FrameDelay(e.opts.FPS))
	return nil
}

func (e *GIFEncoder) Close() error {
	if !e.started {
		return ErrNotStarted
	}
	e.started = false

	if n := len(e.anim.Delay); n > 0 {
		e.anim.Delay[n-1] += int(e.opts.RepeatDelay.Milliseconds() / 10)
	}

	if err := os.MkdirAll(filepath.Dir(e.Path), 0755); err != nil {
		return err
	}
	tmp := partialPath(e.Path)
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := gif.EncodeAll(f, e.anim); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, e.Path); err != nil {
		os.Remove(tmp)
		return err
	}

	e.opts.Logger.Debug("gif written", zap.String("output", e.Path), zap.Int("frames", len(e.anim.Image)))
	e.anim = nil
	return nil
}

func (e *GIFEncoder) Abort() {
	e.started = false
	e.anim = nil
}
