package training

import "errors"

var (
	// ErrTrainingInProgress rejects a trigger while another run is in flight.
	// First wins; the second request is rejected, never queued.
	ErrTrainingInProgress = errors.New("training already in progress")
	ErrUnknownModelKind   = errors.New("unknown model kind")
)
