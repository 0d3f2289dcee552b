package storage

import (
	"encoding/json"
	"io"
	"os"
)

type ExportData struct {
	Run    RunMetadata   `json:"run"`
	Frames []ExportFrame `json:"frames"`
}

type ExportFrame struct {
	Frame         int       `json:"frame"`
	Segment       int       `json:"segment"`
	Index         int       `json:"index"`
	Value         float64   `json:"value"`
	ControlPoints []float64 `json:"control_points"`
}

// Export writes a stored run as indented JSON.
func (s *Store) Export(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	data := ExportData{Run: *meta, Frames: make([]ExportFrame, len(frames))}
	for i, f := range frames {
		data.Frames[i] = ExportFrame{
			Frame:         f.Frame,
			Segment:       f.Segment,
			Index:         f.Index,
			Value:         f.Value,
			ControlPoints: f.ControlPoints,
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func (s *Store) ExportFile(path, runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := s.Export(file, runID); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
