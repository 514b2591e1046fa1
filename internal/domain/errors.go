package domain

import "errors"

// -----------------------------------------------------------------------------
// Domain Errors
// These errors represent domain-level failures and are used by stores and
// services to communicate domain-specific error conditions.
// -----------------------------------------------------------------------------

// Selection errors
var (
	ErrInvalidArm      = errors.New("invalid arm")
	ErrNoArmsAvailable = errors.New("no arms available")
)

// Content errors
var (
	ErrNoContentForArm = errors.New("no content for arm")
)

// Persistence errors
var (
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
	ErrLearnerNotFound        = errors.New("learner not found")
)

// Session errors
var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionExpired    = errors.New("session expired")
	ErrNoPendingExercise = errors.New("no pending exercise in session")
)

// General errors
var (
	ErrInvalidInput = errors.New("invalid input")
)
