package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/splineanim/internal/anim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID             string             `json:"id"`
	Method         string             `json:"method"`
	Timestamp      time.Time          `json:"timestamp"`
	Seed           int64              `json:"seed"`
	NumCP          int                `json:"num_cp"`
	Order          int                `json:"order"`
	Samples        int                `json:"samples"`
	Targets        []int              `json:"targets"`
	RangeScale     float64            `json:"range_scale"`
	FramesPerIndex int                `json:"frames_per_index"`
	TotalFrames    int                `json:"total_frames"`
	FPS            int                `json:"fps"`
	Output         string             `json:"output"`
	Initial        []float64          `json:"initial_control_points"`
	Bounds         anim.Bounds        `json:"bounds"`
	Metrics        map[string]float64 `json:"metrics"`
}

// FrameRecord is the persisted form of one animation frame. Sampled curve
// values are not stored; they can be recomputed from the control points.
type FrameRecord struct {
	Frame         int
	Segment       int
	Index         int
	Value         float64
	YMin          float64
	YMax          float64
	ControlPoints []float64
}

func RecordFrames(frames []anim.Frame) []FrameRecord {
	out := make([]FrameRecord, len(frames))
	for i, f := range frames {
		out[i] = FrameRecord{
			Frame:         f.Index,
			Segment:       f.Segment,
			Index:         f.Active,
			Value:         f.Value,
			YMin:          f.Bounds.Min,
			YMax:          f.Bounds.Max,
			ControlPoints: append([]float64(nil), f.ControlPoints...),
		}
	}
	return out
}

func (s *Store) newRunID(method string, now time.Time) string {
	base := fmt.Sprintf("%s_%d", method, now.Unix())
	id := base
	for n := 2; ; n++ {
		if _, err := os.Stat(filepath.Join(s.baseDir, id)); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s_%d", base, n)
	}
}

// Save writes a run directory and returns its id. meta.ID and
// meta.Timestamp are filled in.
func (s *Store) Save(meta RunMetadata, frames []FrameRecord) (string, error) {
	now := time.Now()
	runID := s.newRunID(meta.Method, now)
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = now

	metaFile, err := os.Create(filepath.Join(runDir, metadataFile))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, framesFile))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	if err := writeFrames(w, frames); err != nil {
		return "", err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}

	return runID, nil
}

func writeFrames(w *csv.Writer, frames []FrameRecord) error {
	if len(frames) == 0 {
		return nil
	}

	header := []string{"frame", "segment", "index", "value", "ymin", "ymax"}
	for i := range frames[0].ControlPoints {
		header = append(header, fmt.Sprintf("cp%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range frames {
		row := []string{
			strconv.Itoa(f.Frame),
			strconv.Itoa(f.Segment),
			strconv.Itoa(f.Index),
			formatFloat(f.Value),
			formatFloat(f.YMin),
			formatFloat(f.YMax),
		}
		for _, v := range f.ControlPoints {
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadFrames(runID string) ([]FrameRecord, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, err
	}

	if len(records) < 2 {
		return []FrameRecord{}, nil
	}

	frames := make([]FrameRecord, 0, len(records)-1)
	for line, record := range records[1:] {
		if len(record) < 6 {
			return nil, fmt.Errorf("%s line %d: expected at least 6 fields, got %d", framesFile, line+2, len(record))
		}
		f, err := parseRecord(record)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, line+2, err)
		}
		frames = append(frames, f)
	}

	return frames, nil
}

func parseRecord(record []string) (FrameRecord, error) {
	var f FrameRecord
	var err error

	ints := []*int{&f.Frame, &f.Segment, &f.Index}
	for i, dst := range ints {
		if *dst, err = strconv.Atoi(record[i]); err != nil {
			return f, err
		}
	}
	floats := []*float64{&f.Value, &f.YMin, &f.YMax}
	for i, dst := range floats {
		if *dst, err = strconv.ParseFloat(record[3+i], 64); err != nil {
			return f, err
		}
	}

	f.ControlPoints = make([]float64, 0, len(record)-6)
	for _, field := range record[6:] {
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return f, err
		}
		f.ControlPoints = append(f.ControlPoints, v)
	}
	return f, nil
}

// Values returns the animated control point's value per frame.
func Values(frames []FrameRecord) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = f.Value
	}
	return out
}
