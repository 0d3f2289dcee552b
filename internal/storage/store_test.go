package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/splineanim/internal/anim"
)

func sampleFrames() []anim.Frame {
	b := anim.Bounds{Min: -0.5, Max: 1.1}
	return []anim.Frame{
		{Index: 0, Segment: 0, Active: 0, Value: 1.0, ControlPoints: []float64{1.0, 0.5}, Bounds: b},
		{Index: 1, Segment: 0, Active: 0, Value: -0.5, ControlPoints: []float64{-0.5, 0.5}, Bounds: b},
		{Index: 2, Segment: 0, Active: 0, Value: -0.5, ControlPoints: []float64{-0.5, 0.5}, Bounds: b},
		{Index: 3, Segment: 0, Active: 0, Value: 1.0, ControlPoints: []float64{1.0, 0.5}, Bounds: b},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{
		Method:  "bsplines",
		Seed:    42,
		Targets: []int{0},
		Initial: []float64{1.0, 0.5},
		Bounds:  anim.Bounds{Min: -0.5, Max: 1.1},
		Metrics: map[string]float64{"elapsed_seconds": 1.5},
	}

	runID, err := st.Save(meta, RecordFrames(sampleFrames()))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.ID != runID {
		t.Errorf("expected id %s, got %s", runID, loaded.ID)
	}
	if loaded.Method != "bsplines" || loaded.Seed != 42 {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Bounds.Max != 1.1 {
		t.Errorf("expected ymax 1.1, got %f", loaded.Bounds.Max)
	}
	if loaded.Metrics["elapsed_seconds"] != 1.5 {
		t.Errorf("expected elapsed 1.5, got %f", loaded.Metrics["elapsed_seconds"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 4 {
		t.Fatalf("expected 4 frames, got %d", len(frames))
	}
	want := []float64{1.0, -0.5, -0.5, 1.0}
	for i, v := range Values(frames) {
		if v != want[i] {
			t.Errorf("frame %d: expected %f, got %f", i, want[i], v)
		}
	}
	if frames[1].ControlPoints[0] != -0.5 || frames[1].ControlPoints[1] != 0.5 {
		t.Errorf("control points not preserved: %v", frames[1].ControlPoints)
	}
	if frames[2].YMin != -0.5 {
		t.Errorf("expected ymin -0.5, got %f", frames[2].YMin)
	}
}

func TestStoreUniqueIDs(t *testing.T) {
	st := New(t.TempDir())
	st.Init()

	a, err := st.Save(RunMetadata{Method: "cubic"}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	b, err := st.Save(RunMetadata{Method: "cubic"}, nil)
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if a == b {
		t.Errorf("expected distinct run ids, got %s twice", a)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	st.Init()

	st.Save(RunMetadata{Method: "bsplines"}, RecordFrames(sampleFrames()))
	st.Save(RunMetadata{Method: "cubic"}, RecordFrames(sampleFrames()))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestStoreListEmpty(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nonexistent"))

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}
}

func TestLoadFramesMalformed(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)
	runDir := filepath.Join(dir, "broken")
	os.MkdirAll(runDir, 0755)
	os.WriteFile(filepath.Join(runDir, framesFile), []byte("frame,segment,index,value,ymin,ymax\n0,0,0,abc,0,1\n"), 0644)

	if _, err := st.LoadFrames("broken"); err == nil {
		t.Error("expected parse error")
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	st.Init()

	runID, err := st.Save(RunMetadata{Method: "akima", Targets: []int{0}}, RecordFrames(sampleFrames()))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var buf bytes.Buffer
	if err := st.Export(&buf, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if data.Run.Method != "akima" {
		t.Errorf("expected method akima, got %s", data.Run.Method)
	}
	if len(data.Frames) != 4 || data.Frames[1].Value != -0.5 {
		t.Errorf("unexpected exported frames %+v", data.Frames)
	}
}

func TestExportFile(t *testing.T) {
	dir := t.TempDir()
	st := New(filepath.Join(dir, "runs"))
	st.Init()
	runID, _ := st.Save(RunMetadata{Method: "linear"}, RecordFrames(sampleFrames()))

	path := filepath.Join(dir, "run.json")
	if err := st.ExportFile(path, runID); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("expected non-empty export file, err=%v", err)
	}

	if err := st.ExportFile(filepath.Join(dir, "missing.json"), "nope"); err == nil {
		t.Error("expected error for unknown run")
	}
}
