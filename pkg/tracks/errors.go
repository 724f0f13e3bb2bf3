package tracks

import "errors"

var (
	// ErrSetNotFound is returned when a music set name is unrecognized.
	ErrSetNotFound = errors.New("tracks: music set not found")

	// ErrExerciseNotFound is returned when an exercise name is unrecognized.
	ErrExerciseNotFound = errors.New("tracks: exercise not found")

	// ErrNotEnoughTracks is returned when a set has fewer files than the
	// exercise has movement classes. No partial mapping is produced.
	ErrNotEnoughTracks = errors.New("tracks: not enough files for exercise")
)
