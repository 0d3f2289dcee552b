package render

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/san-kum/splineanim/internal/anim"
	"github.com/san-kum/splineanim/internal/curve"
	"github.com/san-kum/splineanim/internal/system"
)

const (
	DefaultWidth  = 640
	DefaultHeight = 480
	DefaultDPI    = 96
)

var (
	ErrBadSize           = errors.New("render: width, height and dpi must be positive")
	ErrUnsupportedFormat = errors.New("render: unsupported figure format")
	ErrShapeMismatch     = errors.New("render: frame does not match renderer geometry")
)

// Renderer turns frames into raster images. It holds no per-frame state and
// is safe for concurrent use.
type Renderer struct {
	Width    int
	Height   int
	DPI      int
	Theme    Theme
	Title    string
	ControlX []float64
	Grid     curve.Grid
	Caption  bool

	// Pool supplies output buffers; callers hand images back with
	// Pool.Put once they are encoded.
	Pool *system.ImagePool
}

func New(spec curve.Spec, theme Theme) *Renderer {
	return &Renderer{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		DPI:      DefaultDPI,
		Theme:    theme,
		Title:    spec.Method,
		ControlX: spec.ControlX(),
		Grid:     spec.Grid(),
		Caption:  true,
	}
}

func (r *Renderer) validate(f anim.Frame) error {
	if r.Width <= 0 || r.Height <= 0 || r.DPI <= 0 {
		return ErrBadSize
	}
	if len(f.Samples) != len(r.Grid) || len(f.ControlPoints) != len(r.ControlX) {
		return fmt.Errorf("%w: %d samples on %d grid points, %d control points at %d abscissae",
			ErrShapeMismatch, len(f.Samples), len(r.Grid), len(f.ControlPoints), len(r.ControlX))
	}
	return nil
}

func (r *Renderer) size() (vg.Length, vg.Length) {
	w := vg.Length(r.Width) / vg.Length(r.DPI) * vg.Inch
	h := vg.Length(r.Height) / vg.Length(r.DPI) * vg.Inch
	return w, h
}

// Plot builds the figure for f without rasterizing it.
func (r *Renderer) Plot(f anim.Frame) (*plot.Plot, error) {
	if err := r.validate(f); err != nil {
		return nil, err
	}

	th := r.Theme
	p := plot.New()
	p.Title.Text = r.Title
	p.BackgroundColor = ParseHex(th.Background)
	styleAxis(&p.X, th)
	styleAxis(&p.Y, th)
	p.Title.TextStyle.Color = ParseHex(th.Text)
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	grid := plotter.NewGrid()
	grid.Vertical.Color = ParseHex(th.Grid)
	grid.Horizontal.Color = ParseHex(th.Grid)
	p.Add(grid)

	curvePts := make(plotter.XYs, len(r.Grid))
	for i, x := range r.Grid {
		curvePts[i].X = x
		curvePts[i].Y = f.Samples[i]
	}
	line, err := plotter.NewLine(curvePts)
	if err != nil {
		return nil, err
	}
	line.LineStyle.Color = ParseHex(th.Curve)
	line.LineStyle.Width = vg.Points(2)
	p.Add(line)

	cpPts := make(plotter.XYs, 0, len(r.ControlX))
	for i, x := range r.ControlX {
		if i == f.Active {
			continue
		}
		cpPts = append(cpPts, plotter.XY{X: x, Y: f.ControlPoints[i]})
	}
	if len(cpPts) > 0 {
		markers, err := plotter.NewScatter(cpPts)
		if err != nil {
			return nil, err
		}
		markers.GlyphStyle.Color = ParseHex(th.Marker)
		markers.GlyphStyle.Radius = vg.Points(3)
		markers.GlyphStyle.Shape = vgdraw.CircleGlyph{}
		p.Add(markers)
	}

	if f.Active >= 0 && f.Active < len(r.ControlX) {
		active, err := plotter.NewScatter(plotter.XYs{{X: r.ControlX[f.Active], Y: f.ControlPoints[f.Active]}})
		if err != nil {
			return nil, err
		}
		active.GlyphStyle.Color = ParseHex(th.Active)
		active.GlyphStyle.Radius = vg.Points(5)
		active.GlyphStyle.Shape = vgdraw.CircleGlyph{}
		p.Add(active)
	}

	// Add widens the ranges to the data, so the fixed bounds go last.
	p.X.Min, p.X.Max = r.Grid.Min(), r.Grid.Max()
	p.Y.Min, p.Y.Max = f.Bounds.Min, f.Bounds.Max
	return p, nil
}

func styleAxis(a *plot.Axis, th Theme) {
	axis := ParseHex(th.Axis)
	text := ParseHex(th.Text)
	a.LineStyle.Color = axis
	a.Tick.LineStyle.Color = axis
	a.Tick.Label.Color = text
	a.Label.TextStyle.Color = text
}

// Render rasterizes f at the renderer's pixel size.
func (r *Renderer) Render(f anim.Frame) (*image.RGBA, error) {
	p, err := r.Plot(f)
	if err != nil {
		return nil, err
	}

	w, h := r.size()
	c := vgimg.NewWith(
		vgimg.UseWH(w, h),
		vgimg.UseDPI(r.DPI),
		vgimg.UseBackgroundColor(ParseHex(r.Theme.Background)),
	)
	p.Draw(vgdraw.New(c))

	img := r.copyOut(c.Image())
	if r.Caption {
		r.stamp(img, Caption(f))
	}
	return img, nil
}

// Caption describes a frame in one line.
func Caption(f anim.Frame) string {
	if f.Index < 0 {
		return "initial configuration"
	}
	return fmt.Sprintf("frame %d/%d  cp[%d] = %.3f", f.Index+1, f.Total, f.Active, f.Value)
}

func (r *Renderer) stamp(img *image.RGBA, text string) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(ParseHex(r.Theme.Text)),
		Face: basicfont.Face7x13,
		Dot:  fixed.P(8, 16),
	}
	d.DrawString(text)
}

func (r *Renderer) copyOut(img image.Image) *image.RGBA {
	b := img.Bounds()
	out := r.Pool.Get(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// FigureFormats lists the extensions SaveFigure accepts.
var FigureFormats = []string{"png", "svg", "pdf", "jpg", "jpeg", "eps", "tif", "tiff"}

// SaveFigure writes f as a static figure; the format follows the file
// extension.
func (r *Renderer) SaveFigure(f anim.Frame, path string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	supported := false
	for _, ff := range FigureFormats {
		if ext == ff {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}

	p, err := r.Plot(f)
	if err != nil {
		return err
	}
	w, h := r.size()
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("save figure %s: %w", path, err)
	}
	return nil
}
