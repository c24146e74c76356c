package domain

import "errors"

var (
	// Common domain errors
	ErrNotFound               = errors.New("entity not found")
	ErrInvalidArgument        = errors.New("invalid argument")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrStorageNotFound        = errors.New("file not found in storage")
	ErrProcessing             = errors.New("speech-to-text processing failed")
	ErrLockHeld               = errors.New("lecture is locked by another worker")
)
