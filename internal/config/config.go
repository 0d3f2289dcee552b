package config

import (
	"errors"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/splineanim/internal/anim"
	"github.com/san-kum/splineanim/internal/curve"
)

const (
	DefaultFramesPerIndex = 120
	DefaultRangeScale     = 0.5
	DefaultFPS            = 60
	DefaultCRF            = 23
	DefaultRepeatDelayMS  = 1000
	DefaultSeed           = 100
	DefaultRandomScale    = 1.5
	DefaultWidth          = 640
	DefaultHeight         = 480
	DefaultDPI            = 96
	DefaultTheme          = "paper"
	DefaultOutput         = "spline_animation.mp4"
	DefaultCodec          = "libx264"
)

var ErrControlPoints = errors.New("config: control points do not match the curve")

type Config struct {
	Curve         curve.Spec      `yaml:"curve"`
	ControlPoints []float64       `yaml:"control_points,omitempty"`
	Random        RandomConfig    `yaml:"random"`
	Animation     AnimationConfig `yaml:"animation"`
	Output        OutputConfig    `yaml:"output"`
}

// RandomConfig draws control points uniformly from [0, Scale) when no
// explicit control points are given.
type RandomConfig struct {
	Seed  int64   `yaml:"seed"`
	Scale float64 `yaml:"scale"`
}

type AnimationConfig struct {
	Targets        []int   `yaml:"targets"`
	RangeScale     float64 `yaml:"range_scale"`
	FramesPerIndex int     `yaml:"frames_per_index"`
}

type OutputConfig struct {
	Path          string `yaml:"path"`
	FPS           int    `yaml:"fps"`
	Codec         string `yaml:"codec"`
	CRF           int    `yaml:"crf"`
	RepeatDelayMS int    `yaml:"repeat_delay_ms"`
	Width         int    `yaml:"width"`
	Height        int    `yaml:"height"`
	DPI           int    `yaml:"dpi"`
	Theme         string `yaml:"theme"`
	Workers       int    `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		Curve: curve.DefaultSpec(),
		Random: RandomConfig{
			Seed:  DefaultSeed,
			Scale: DefaultRandomScale,
		},
		Animation: AnimationConfig{
			Targets:        []int{3},
			RangeScale:     DefaultRangeScale,
			FramesPerIndex: DefaultFramesPerIndex,
		},
		Output: OutputConfig{
			Path:          DefaultOutput,
			FPS:           DefaultFPS,
			Codec:         DefaultCodec,
			CRF:           DefaultCRF,
			RepeatDelayMS: DefaultRepeatDelayMS,
			Width:         DefaultWidth,
			Height:        DefaultHeight,
			DPI:           DefaultDPI,
			Theme:         DefaultTheme,
		},
	}
}

func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads path on top of a copy of base. Keys missing from the file
// keep base's values.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := base.Clone()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.ControlPoints = append([]float64(nil), c.ControlPoints...)
	out.Animation.Targets = append([]int(nil), c.Animation.Targets...)
	return &out
}

// GetControlPoints returns the explicit control points, or draws NumCP
// values from the seeded generator.
func (c *Config) GetControlPoints() ([]float64, error) {
	if len(c.ControlPoints) > 0 {
		if len(c.ControlPoints) != c.Curve.NumCP {
			return nil, fmt.Errorf("%w: %d values for num_cp %d", ErrControlPoints, len(c.ControlPoints), c.Curve.NumCP)
		}
		return append([]float64(nil), c.ControlPoints...), nil
	}

	rng := rand.New(rand.NewSource(c.Random.Seed))
	cp := make([]float64, c.Curve.NumCP)
	for i := range cp {
		cp[i] = c.Random.Scale * rng.Float64()
	}
	return cp, nil
}

func (c *Config) GetAnimation() anim.Config {
	return anim.Config{
		Targets:        append([]int(nil), c.Animation.Targets...),
		RangeScale:     c.Animation.RangeScale,
		FramesPerIndex: c.Animation.FramesPerIndex,
	}
}

func (c *Config) Validate() error {
	if err := c.Curve.Validate(); err != nil {
		return err
	}
	if _, err := c.GetControlPoints(); err != nil {
		return err
	}
	if c.Output.FPS <= 0 {
		return fmt.Errorf("config: fps must be positive, got %d", c.Output.FPS)
	}
	return c.GetAnimation().Validate(c.Curve.NumCP)
}
