// Package video encodes ordered frame images into output files.
//
// Every encoder follows the same lifecycle: Begin once with the frame size,
// WriteFrame in presentation order, then either Close to finalize or Abort to
// discard. Outputs are written under a temporary name and only moved into
// place by a successful Close, so an aborted run never leaves a file that
// looks complete.
package video

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultFPS         = 60
	DefaultCodec       = "libx264"
	DefaultCRF         = 23
	DefaultRepeatDelay = 1000 * time.Millisecond
)

var (
	ErrUnsupportedFormat = errors.New("video: unsupported output format")
	ErrNotStarted        = errors.New("video: encoder not started")
	ErrFrameSize         = errors.New("video: frame size changed mid-stream")
	ErrFFmpegNotFound    = errors.New("video: ffmpeg not found on PATH")
)

type Encoder interface {
	Begin(width, height int) error
	WriteFrame(img image.Image) error
	Close() error
	Abort()
}

type Options struct {
	FPS         int
	Codec       string
	CRF         int
	RepeatDelay time.Duration
	Logger      *zap.Logger
}

func DefaultOptions() Options {
	return Options{
		FPS:         DefaultFPS,
		Codec:       DefaultCodec,
		CRF:         DefaultCRF,
		RepeatDelay: DefaultRepeatDelay,
		Logger:      zap.NewNop(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.FPS <= 0 {
		o.FPS = d.FPS
	}
	if o.Codec == "" {
		o.Codec = d.Codec
	}
	if o.CRF <= 0 {
		o.CRF = d.CRF
	}
	if o.RepeatDelay < 0 {
		o.RepeatDelay = 0
	}
	if o.Logger == nil {
		o.Logger = d.Logger
	}
	return o
}

// Formats lists the file extensions ForPath recognizes.
var Formats = []string{".mp4", ".mkv", ".mov", ".webm", ".gif", "(directory)"}

// ForPath picks an encoder from the output path. Video containers go through
// ffmpeg, .gif is encoded in-process, and a path without an extension (or an
// existing directory) receives a PNG sequence.
func ForPath(path string, opts Options) (Encoder, error) {
	opts = opts.withDefaults()

	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return NewPNGSequence(path, opts), nil
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp4", ".mkv", ".mov", ".webm":
		return NewFFmpeg(path, opts), nil
	case ".gif":
		return NewGIF(path, opts), nil
	case "":
		return NewPNGSequence(path, opts), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// partialPath keeps the extension so format sniffing by extension still
// works on the temporary file.
func partialPath(path string) string {
	ext := filepath.Ext(path)
	dir, base := filepath.Split(strings.TrimSuffix(path, ext))
	return filepath.Join(dir, "."+base+".partial"+ext)
}

func checkSize(img image.Image, w, h int) error {
	b := img.Bounds()
	if b.Dx() != w || b.Dy() != h {
		return fmt.Errorf("%w: expected %dx%d, got %dx%d", ErrFrameSize, w, h, b.Dx(), b.Dy())
	}
	return nil
}
