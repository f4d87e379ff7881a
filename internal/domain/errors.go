package domain

import "errors"

// Sentinel errors used across layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrNoBaseline    = errors.New("lot has no baseline")
	ErrNoEvaluation  = errors.New("lot has no evaluation")
	ErrInvalidLot    = errors.New("invalid lot")
	ErrInvalidRating = errors.New("rating out of range")
)
