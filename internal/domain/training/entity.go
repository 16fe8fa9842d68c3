package training

import "time"

// Model kinds accepted by the training trigger.
const (
	KindAttendance  = "attendance"
	KindPerformance = "performance"
	KindMatching    = "matching"
	KindAll         = "all"
)

// Run statuses.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusFailed  = "failed"
)

// Metrics holds the numbers reported by one model training.
type Metrics struct {
	Model          string  `json:"model"`
	Epochs         int     `json:"epochs"`
	TrainSamples   int     `json:"train_samples"`
	TestSamples    int     `json:"test_samples"`
	FinalTrainLoss float64 `json:"final_train_loss"`
	FinalTestLoss  float64 `json:"final_test_loss"`
	BestTestLoss   float64 `json:"best_test_loss"`
	Accuracy       float64 `json:"accuracy,omitempty"`
	MAE            float64 `json:"mae,omitempty"`
}

// Run records the outcome of one training of one model kind. Held in process
// memory only; the history resets on restart.
type Run struct {
	ID              string    `json:"run_id"`
	Model           string    `json:"model"`
	Status          string    `json:"status"`
	Reason          string    `json:"reason,omitempty"`
	Metrics         *Metrics  `json:"metrics,omitempty"`
	DurationSeconds float64   `json:"duration_seconds"`
	TrainedAt       time.Time `json:"trained_at"`
}

// Summary is the result of a full sequential training pass.
type Summary struct {
	Attendance           Run       `json:"attendance"`
	Performance          Run       `json:"performance"`
	Matching             Run       `json:"matching"`
	TotalDurationSeconds float64   `json:"total_duration_seconds"`
	CompletedAt          time.Time `json:"completed_at"`
}

// Status reports the last known run per model kind plus the in-progress flag.
type Status struct {
	InProgress  bool           `json:"training_in_progress"`
	Models      map[string]Run `json:"models"`
	LastChecked time.Time      `json:"last_checked"`
}
