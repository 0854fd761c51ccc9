package sharding

import "errors"

var (
	// ErrBackdoorGenerationFailed is returned when every regenerated share
	// set was rejected by the backdoor detector.
	ErrBackdoorGenerationFailed = errors.New("sharding: backdoor screening rejected all regenerated share sets")

	// ErrCancelled is returned when the caller cancelled the operation; no
	// partial key material is ever returned alongside it.
	ErrCancelled = errors.New("sharding: operation cancelled")

	// ErrTimeout is returned when the operation deadline passed before
	// enough puzzles were solved.
	ErrTimeout = errors.New("sharding: operation timed out")
)
