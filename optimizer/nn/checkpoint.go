package nn

import (
	"encoding/json"
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
)

// checkpointGroup is the serialized form of one parameter group.
type checkpointGroup struct {
	Rows int       `json:"rows"`
	Cols int       `json:"cols"`
	Data []float64 `json:"data"`
}

// checkpointFile maps parameter-group names to their values.
type checkpointFile struct {
	Groups map[string]checkpointGroup `json:"parameters"`
}

// Save writes every parameter group to a JSON checkpoint at path.
func (p *Parameters) Save(path string) error {
	file := checkpointFile{Groups: make(map[string]checkpointGroup)}
	for _, g := range p.groups() {
		rows, cols := g.w.Dims()
		data := make([]float64, rows*cols)
		copy(data, g.w.RawMatrix().Data)
		file.Groups[g.name] = checkpointGroup{Rows: rows, Cols: cols, Data: data}
	}

	encoded, err := json.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode checkpoint: %w", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		return fmt.Errorf("write checkpoint: %w", err)
	}
	return nil
}

// LoadParameters restores parameters from a checkpoint written by Save.
// It fails if the file is missing or any expected group is absent or has the
// wrong shape.
func LoadParameters(path string) (*Parameters, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read checkpoint: %w", err)
	}

	var file checkpointFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse checkpoint: %w", err)
	}

	params := NewParameters(0)
	for _, g := range params.groups() {
		stored, ok := file.Groups[g.name]
		if !ok {
			return nil, fmt.Errorf("checkpoint missing parameter group %q", g.name)
		}
		rows, cols := g.w.Dims()
		if stored.Rows != rows || stored.Cols != cols || len(stored.Data) != rows*cols {
			return nil, fmt.Errorf("checkpoint group %q: expected shape %dx%d, got %dx%d (%d values)",
				g.name, rows, cols, stored.Rows, stored.Cols, len(stored.Data))
		}
		g.w.Copy(mat.NewDense(rows, cols, stored.Data))
	}

	return params, nil
}
