package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/san-kum/splineanim/internal/anim"
	"github.com/san-kum/splineanim/internal/config"
	"github.com/san-kum/splineanim/internal/curve"
)

// problem is a resolved configuration with its curve model and initial
// control points.
type problem struct {
	cfg     *config.Config
	model   curve.Model
	initial []float64
}

// resolveConfig layers the configuration sources: defaults, then the preset,
// then the config file, then any flag set on the command line.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(method, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available for %s: %v)", preset, method, config.ListPresets(method))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("method") {
		cfg.Curve.Method = method
	}
	if flags.Changed("targets") {
		cfg.Animation.Targets = append([]int(nil), targets...)
	}
	if flags.Changed("scale") {
		cfg.Animation.RangeScale = rangeScale
	}
	if flags.Changed("frames") {
		cfg.Animation.FramesPerIndex = framesPerIndex
	}
	if flags.Changed("fps") {
		cfg.Output.FPS = fps
	}
	if flags.Changed("out") {
		cfg.Output.Path = outPath
	}
	if flags.Changed("seed") {
		cfg.Random.Seed = seed
	}
	if flags.Changed("workers") {
		cfg.Output.Workers = workers
	}
	if flags.Changed("theme") {
		cfg.Output.Theme = theme
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newProblem(cmd *cobra.Command) (*problem, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	model, err := curve.NewRegistry().Get(cfg.Curve.Method, cfg.Curve)
	if err != nil {
		return nil, err
	}
	cp, err := cfg.GetControlPoints()
	if err != nil {
		return nil, err
	}
	return &problem{cfg: cfg, model: model, initial: cp}, nil
}

func (p *problem) driver(log *zap.Logger) (*anim.Driver, error) {
	d, err := anim.New(p.model, p.cfg.Curve.Grid(), p.initial, p.cfg.GetAnimation())
	if err != nil {
		return nil, err
	}
	d.SetLogger(log)
	return d, nil
}

func (p *problem) repeatDelay() time.Duration {
	return time.Duration(p.cfg.Output.RepeatDelayMS) * time.Millisecond
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewNop(), nil
}
