package video

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// FFmpegEncoder pipes raw RGBA frames into an ffmpeg process.
type FFmpegEncoder struct {
	Path   string
	Binary string
	opts   Options

	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr bytes.Buffer
	tmp    string
	w, h   int
	frames int
}

func NewFFmpeg(path string, opts Options) *FFmpegEncoder {
	return &FFmpegEncoder{Path: path, Binary: "ffmpeg", opts: opts.withDefaults()}
}

// Args builds the ffmpeg command line for a w x h stream written to out.
func (e *FFmpegEncoder) Args(w, h int, out string) []string {
	args := []string{
		"-y",
		"-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", w, h),
		"-framerate", fmt.Sprintf("%d", e.opts.FPS),
		"-i", "-",
		// yuv420p needs even dimensions
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-pix_fmt", "yuv420p",
		"-c:v", e.opts.Codec,
	}

	switch e.opts.Codec {
	case "h264_videotoolbox":
		args = append(args, "-b:v", fmt.Sprintf("%dk", (51-e.opts.CRF)*200))
	case "h264_nvenc":
		args = append(args, "-cq", fmt.Sprintf("%d", e.opts.CRF))
	default:
		args = append(args, "-crf", fmt.Sprintf("%d", e.opts.CRF), "-preset", "medium")
	}

	return append(args, out)
}

func (e *FFmpegEncoder) Begin(w, h int) error {
	bin, err := exec.LookPath(e.Binary)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrFFmpegNotFound, err)
	}
	if err := os.MkdirAll(filepath.Dir(e.Path), 0755); err != nil {
		return err
	}

	e.w, e.h = w, h
	e.tmp = partialPath(e.Path)
	e.cmd = exec.Command(bin, e.Args(w, h, e.tmp)...)
	e.cmd.Stderr = &e.stderr

	stdin, err := e.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("stdin pipe error: %w", err)
	}
	e.stdin = stdin

	if err := e.cmd.Start(); err != nil {
		return fmt.Errorf("ffmpeg start error: %w", err)
	}

	e.opts.Logger.Debug("ffmpeg started",
		zap.String("output", e.Path),
		zap.Strings("args", e.cmd.Args[1:]),
	)
	return nil
}

func (e *FFmpegEncoder) WriteFrame(img image.Image) error {
	if e.cmd == nil {
		return ErrNotStarted
	}
	if err := checkSize(img, e.w, e.h); err != nil {
		return err
	}
	if err := writeRawRGBA(e.stdin, img); err != nil {
		return fmt.Errorf("write raw error: %w: %s", err, e.ffmpegOutput())
	}
	e.frames++
	return nil
}

func (e *FFmpegEncoder) Close() error {
	if e.cmd == nil {
		return ErrNotStarted
	}
	e.stdin.Close()
	err := e.cmd.Wait()
	e.cmd = nil
	if err != nil {
		os.Remove(e.tmp)
		return fmt.Errorf("ffmpeg wait error: %w: %s", err, e.ffmpegOutput())
	}
	if err := os.Rename(e.tmp, e.Path); err != nil {
		os.Remove(e.tmp)
		return err
	}

	e.opts.Logger.Debug("ffmpeg finished", zap.String("output", e.Path), zap.Int("frames", e.frames))
	return nil
}

func (e *FFmpegEncoder) Abort() {
	if e.cmd == nil {
		return
	}
	e.stdin.Close()
	if e.cmd.Process != nil {
		e.cmd.Process.Kill()
	}
	e.cmd.Wait()
	e.cmd = nil
	os.Remove(e.tmp)
	e.opts.Logger.Debug("ffmpeg aborted", zap.String("output", e.Path), zap.Int("frames", e.frames))
}

func (e *FFmpegEncoder) ffmpegOutput() string {
	return strings.TrimSpace(e.stderr.String())
}

func writeRawRGBA(w io.Writer, img image.Image) error {
	bounds := img.Bounds()
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Stride != bounds.Dx()*4 || rgba.Rect.Min.X != 0 || rgba.Rect.Min.Y != 0 {
		rgba = image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
		draw.Draw(rgba, rgba.Bounds(), img, bounds.Min, draw.Src)
	}
	_, err := w.Write(rgba.Pix)
	return err
}
