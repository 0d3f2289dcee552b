package system

import (
	"image"
	"testing"
)

func TestWorkers(t *testing.T) {
	tests := []struct {
		name       string
		res        Resources
		requested  int
		frameBytes uint64
		expected   int
	}{
		{"explicit request", Resources{LogicalCPUs: 8}, 3, 0, 3},
		{"request capped", Resources{LogicalCPUs: 8}, 100, 0, MaxWorkers},
		{"one per cpu", Resources{LogicalCPUs: 6, AvailableBytes: 1 << 34}, 0, 1 << 20, 6},
		{"memory bound", Resources{LogicalCPUs: 16, AvailableBytes: 64 << 20}, 0, 4 << 20, 2},
		{"never zero", Resources{LogicalCPUs: 4, AvailableBytes: 1 << 20}, 0, 4 << 20, 1},
		{"cpu cap", Resources{LogicalCPUs: 128}, 0, 0, MaxWorkers},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.Workers(tt.requested, tt.frameBytes); got != tt.expected {
				t.Errorf("expected %d workers, got %d", tt.expected, got)
			}
		})
	}
}

func TestWorkersUnknownCPU(t *testing.T) {
	if got := (Resources{}).Workers(0, 0); got < 1 {
		t.Errorf("expected at least one worker, got %d", got)
	}
}

func TestProbe(t *testing.T) {
	r := Probe()
	if r.LogicalCPUs < 0 {
		t.Errorf("negative cpu count: %d", r.LogicalCPUs)
	}
}

func TestImagePool(t *testing.T) {
	p := NewImagePool()
	rect := image.Rect(0, 0, 16, 8)

	img := p.Get(rect)
	if img.Rect != rect {
		t.Fatalf("expected %v, got %v", rect, img.Rect)
	}
	p.Put(img)

	again := p.Get(rect)
	if again.Rect != rect {
		t.Errorf("expected %v, got %v", rect, again.Rect)
	}

	// unknown sizes are dropped silently
	p.Put(image.NewRGBA(image.Rect(0, 0, 3, 3)))
}

func TestNilImagePool(t *testing.T) {
	var p *ImagePool
	img := p.Get(image.Rect(0, 0, 4, 4))
	if img == nil || img.Rect.Dx() != 4 {
		t.Fatalf("nil pool should allocate, got %v", img)
	}
	p.Put(img)
}
