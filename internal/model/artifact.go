package model

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gonum.org/v1/gonum/mat"
)

// tensorData is the gob-friendly form of one weight matrix.
type tensorData struct {
	Rows int
	Cols int
	Data []float64
}

type artifact struct {
	Kind    string
	SavedAt time.Time
	Tensors []tensorData
}

// ArtifactStore persists model weights as gob files under a single
// directory, one file per model kind. Writes go through a temp file and a
// rename so readers never see a partial artifact.
type ArtifactStore struct {
	dir string
}

func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create model directory: %w", err)
	}
	return &ArtifactStore{dir: dir}, nil
}

func (s *ArtifactStore) path(kind string) string {
	return filepath.Join(s.dir, kind+".gob")
}

func (s *ArtifactStore) Exists(kind string) bool {
	_, err := os.Stat(s.path(kind))
	return err == nil
}

func (s *ArtifactStore) Save(kind string, tensors []*mat.Dense) error {
	art := artifact{Kind: kind, SavedAt: time.Now().UTC()}
	for _, t := range tensors {
		rows, cols := t.Dims()
		data := make([]float64, 0, rows*cols)
		for i := 0; i < rows; i++ {
			for j := 0; j < cols; j++ {
				data = append(data, t.At(i, j))
			}
		}
		art.Tensors = append(art.Tensors, tensorData{Rows: rows, Cols: cols, Data: data})
	}

	tmp, err := os.CreateTemp(s.dir, kind+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := gob.NewEncoder(tmp).Encode(art); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode model artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path(kind)); err != nil {
		return fmt.Errorf("failed to replace model artifact: %w", err)
	}
	return nil
}

// Load reads the artifact for kind. A missing file surfaces as
// fs.ErrNotExist through the wrapped open error.
func (s *ArtifactStore) Load(kind string) ([]*mat.Dense, error) {
	f, err := os.Open(s.path(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to open model artifact: %w", err)
	}
	defer f.Close()

	var art artifact
	if err := gob.NewDecoder(f).Decode(&art); err != nil {
		return nil, fmt.Errorf("failed to decode model artifact: %w", err)
	}
	if art.Kind != kind {
		return nil, fmt.Errorf("artifact kind mismatch: got %q, want %q", art.Kind, kind)
	}

	tensors := make([]*mat.Dense, 0, len(art.Tensors))
	for _, t := range art.Tensors {
		if len(t.Data) != t.Rows*t.Cols {
			return nil, fmt.Errorf("artifact tensor has %d values, want %d", len(t.Data), t.Rows*t.Cols)
		}
		tensors = append(tensors, mat.NewDense(t.Rows, t.Cols, t.Data))
	}
	return tensors, nil
}
