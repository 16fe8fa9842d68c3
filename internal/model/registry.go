package model

import (
	"errors"
	"io/fs"
	"log/slog"
)

// Registry owns the three predictive models and their on-disk artifacts.
// Persisted weights are loaded once at startup and kept cached in memory;
// training swaps the cached weights and rewrites the artifacts, so request
// paths never touch the filesystem.
type Registry struct {
	store       *ArtifactStore
	attendance  *AttendanceForecaster
	performance *PerformanceScorer
	matching    *CandidateMatcher
}

func NewRegistry(dir string, logger *slog.Logger) (*Registry, error) {
	store, err := NewArtifactStore(dir)
	if err != nil {
		return nil, err
	}

	r := &Registry{
		store:       store,
		attendance:  NewAttendanceForecaster(store),
		performance: NewPerformanceScorer(store),
		matching:    NewCandidateMatcher(store),
	}

	type loader interface{ Load() error }
	for kind, m := range map[string]loader{
		KindAttendance:  r.attendance,
		KindPerformance: r.performance,
		KindMatching:    r.matching,
	} {
		if err := m.Load(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				logger.Info("no trained model artifact found", slog.String("model", kind))
				continue
			}
			logger.Warn("failed to load model artifact", slog.String("model", kind), slog.Any("error", err))
			continue
		}
		logger.Info("model artifact loaded", slog.String("model", kind))
	}
	return r, nil
}

func (r *Registry) Attendance() *AttendanceForecaster { return r.attendance }
func (r *Registry) Performance() *PerformanceScorer   { return r.performance }
func (r *Registry) Matching() *CandidateMatcher       { return r.matching }
