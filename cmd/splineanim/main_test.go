package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/splineanim/internal/anim"
	"github.com/san-kum/splineanim/internal/config"
	"github.com/san-kum/splineanim/internal/storage"
)

// parse builds a fresh command tree, which also resets the flag variables
// to their defaults.
func parse(t *testing.T, name string, args ...string) *cobra.Command {
	t.Helper()
	root := newRootCmd()
	cmd, _, err := root.Find([]string{name})
	if err != nil {
		t.Fatalf("find %s: %v", name, err)
	}
	if err := cmd.ParseFlags(args); err != nil {
		t.Fatalf("parse flags: %v", err)
	}
	return cmd
}

func writeYAML(t *testing.T, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(parse(t, "render"))
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	def := config.DefaultConfig()
	if cfg.Curve != def.Curve {
		t.Errorf("curve = %+v, want %+v", cfg.Curve, def.Curve)
	}
	if cfg.Animation.FramesPerIndex != def.Animation.FramesPerIndex || cfg.Output.FPS != def.Output.FPS {
		t.Errorf("animation/output changed without flags: %+v %+v", cfg.Animation, cfg.Output)
	}
}

func TestResolveConfigPrecedence(t *testing.T) {
	path := writeYAML(t, "output:\n  fps: 24\n  theme: ocean\n")

	tests := []struct {
		name       string
		args       []string
		wantFPS    int
		wantFrames int
		wantTheme  string
	}{
		{"preset", []string{"--preset", "sweep"}, 30, 30, config.DefaultTheme},
		{"config over preset", []string{"--preset", "sweep", "--config", path}, 24, 30, "ocean"},
		{"flag over config", []string{"--preset", "sweep", "--config", path, "--fps", "12"}, 12, 30, "ocean"},
		{"flag over preset", []string{"--preset", "sweep", "--frames", "8", "--theme", "retro"}, 30, 8, "retro"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := resolveConfig(parse(t, "render", tt.args...))
			if err != nil {
				t.Fatalf("resolveConfig: %v", err)
			}
			if cfg.Output.FPS != tt.wantFPS {
				t.Errorf("fps = %d, want %d", cfg.Output.FPS, tt.wantFPS)
			}
			if cfg.Animation.FramesPerIndex != tt.wantFrames {
				t.Errorf("frames = %d, want %d", cfg.Animation.FramesPerIndex, tt.wantFrames)
			}
			if cfg.Output.Theme != tt.wantTheme {
				t.Errorf("theme = %s, want %s", cfg.Output.Theme, tt.wantTheme)
			}
			if len(cfg.Animation.Targets) != 4 {
				t.Errorf("targets = %v, want the sweep preset's four", cfg.Animation.Targets)
			}
		})
	}
}

func TestResolveConfigTargetsFlag(t *testing.T) {
	cfg, err := resolveConfig(parse(t, "render", "--targets", "1,2", "--scale", "1"))
	if err != nil {
		t.Fatalf("resolveConfig: %v", err)
	}
	if len(cfg.Animation.Targets) != 2 || cfg.Animation.Targets[0] != 1 || cfg.Animation.Targets[1] != 2 {
		t.Errorf("targets = %v", cfg.Animation.Targets)
	}
	if cfg.Animation.RangeScale != 1 {
		t.Errorf("scale = %v", cfg.Animation.RangeScale)
	}
}

func TestResolveConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"odd frames", []string{"--frames", "5"}, anim.ErrInvalidInput},
		{"target out of range", []string{"--targets", "10"}, anim.ErrIndexOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolveConfig(parse(t, "render", tt.args...))
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := resolveConfig(parse(t, "render", "--preset", "nope")); err == nil {
		t.Error("unknown preset accepted")
	}
	if _, err := resolveConfig(parse(t, "render", "--config", filepath.Join(t.TempDir(), "missing.yaml"))); err == nil {
		t.Error("missing config file accepted")
	}
}

func TestFigureCommand(t *testing.T) {
	base := filepath.Join(t.TempDir(), "initial")
	root := newRootCmd()
	root.SetArgs([]string{"figure", "--out", base + ".png", "--formats", "png,svg"})
	if err := root.Execute(); err != nil {
		t.Fatalf("figure: %v", err)
	}
	for _, ext := range []string{".png", ".svg"} {
		if info, err := os.Stat(base + ext); err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", ext, err)
		}
	}
}

func TestRenderCommandRecordsRun(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "anim.gif")
	data := filepath.Join(dir, "data")

	root := newRootCmd()
	root.SetArgs([]string{"render", "--quiet", "--frames", "4", "--targets", "2,5", "--workers", "2", "--out", out, "--data", data})
	if err := root.Execute(); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatalf("output missing: %v", err)
	}

	runs, err := storage.New(data).List()
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want 1", len(runs))
	}
	if runs[0].TotalFrames != 8 || runs[0].Output != out {
		t.Errorf("run metadata = %+v", runs[0])
	}

	frames, err := storage.New(data).LoadFrames(runs[0].ID)
	if err != nil {
		t.Fatalf("load frames: %v", err)
	}
	if len(frames) != 8 {
		t.Errorf("got %d frame records, want 8", len(frames))
	}
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "splineanim.yaml")
	root := newRootCmd()
	root.SetArgs([]string{"init", path, "--preset", "flip"})
	if err := root.Execute(); err != nil {
		t.Fatalf("init: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg.Animation.RangeScale != 1.0 || cfg.Animation.Targets[0] != 4 {
		t.Errorf("written config = %+v", cfg.Animation)
	}
}
