package training

import "context"

type TrainingService interface {
	// TrainModel trains one model kind (attendance, performance, or
	// matching). Only one training run may be active at a time; a second
	// caller gets ErrTrainingInProgress.
	TrainModel(ctx context.Context, kind string) (*Run, error)

	// TrainAll trains every model sequentially under a single exclusion
	// window.
	TrainAll(ctx context.Context) (*Summary, error)

	// Status reports the in-progress flag and the last run per model.
	Status() Status
}
