package video

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"go.uber.org/zap"
)

// PNGSequence writes one numbered PNG per frame into a directory.
type PNGSequence struct {
	Dir  string
	opts Options

	written []string
	w, h    int
	started bool
}

func NewPNGSequence(dir string, opts Options) *PNGSequence {
	return &PNGSequence{Dir: dir, opts: opts.withDefaults()}
}

func FrameName(i int) string {
	return fmt.Sprintf("frame_%06d.png", i)
}

func (e *PNGSequence) Begin(w, h int) error {
	if err := os.MkdirAll(e.Dir, 0755); err != nil {
		return err
	}
	e.w, e.h = w, h
	e.written = e.written[:0]
	e.started = true
	return nil
}

func (e *PNGSequence) WriteFrame(img image.Image) error {
	if !e.started {
		return ErrNotStarted
	}
	if err := checkSize(img, e.w, e.h); err != nil {
		return err
	}

	name := filepath.Join(e.Dir, FrameName(len(e.written)))
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	e.written = append(e.written, name)
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (e *PNGSequence) Close() error {
	if !e.started {
		return ErrNotStarted
	}
	e.started = false
	e.opts.Logger.Debug("png sequence written", zap.String("dir", e.Dir), zap.Int("frames", len(e.written)))
	return nil
}

func (e *PNGSequence) Abort() {
	for _, name := range e.written {
		os.Remove(name)
	}
	e.written = nil
	e.started = false
}
