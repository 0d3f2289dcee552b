package config

import "github.com/san-kum/splineanim/internal/curve"

var bsplineKnots = []float64{1.0, 0.56, 0.24, 0.89, 0.9, 0.3, 0.6, 0.7, 0.2, 0.5}

var Presets = map[string]map[string]*Config{
	"bsplines": {
		"demo": {
			Curve:         spec("bsplines"),
			ControlPoints: bsplineKnots,
			Animation:     AnimationConfig{Targets: []int{3}, RangeScale: 0.5, FramesPerIndex: 120},
			Output:        output(60),
		},
		"sweep": {
			Curve:         spec("bsplines"),
			ControlPoints: bsplineKnots,
			Animation:     AnimationConfig{Targets: []int{1, 3, 5, 7}, RangeScale: 0.5, FramesPerIndex: 30},
			Output:        output(30),
		},
		"flip": {
			Curve:         spec("bsplines"),
			ControlPoints: bsplineKnots,
			Animation:     AnimationConfig{Targets: []int{4}, RangeScale: 1.0, FramesPerIndex: 120},
			Output:        output(60),
		},
	},
	"cubic": {
		"demo": {
			Curve:     spec("cubic"),
			Random:    RandomConfig{Seed: 100, Scale: 1.5},
			Animation: AnimationConfig{Targets: []int{3}, RangeScale: 0.5, FramesPerIndex: 120},
			Output:    output(60),
		},
		"sweep": {
			Curve:     spec("cubic"),
			Random:    RandomConfig{Seed: 100, Scale: 1.5},
			Animation: AnimationConfig{Targets: []int{0, 3, 6, 9}, RangeScale: 0.5, FramesPerIndex: 30},
			Output:    output(30),
		},
	},
	"akima": {
		"demo": {
			Curve:     spec("akima"),
			Random:    RandomConfig{Seed: 100, Scale: 1.5},
			Animation: AnimationConfig{Targets: []int{3}, RangeScale: 0.5, FramesPerIndex: 120},
			Output:    output(60),
		},
	},
}

func spec(method string) curve.Spec {
	s := curve.DefaultSpec()
	s.Method = method
	return s
}

func output(fps int) OutputConfig {
	o := DefaultConfig().Output
	o.FPS = fps
	return o
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(method, preset string) *Config {
	methodPresets, ok := Presets[method]
	if !ok {
		return nil
	}
	cfg, ok := methodPresets[preset]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets(method string) []string {
	methodPresets, ok := Presets[method]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(methodPresets))
	for name := range methodPresets {
		names = append(names, name)
	}
	return names
}
