package interview

import "errors"

var (
	// ErrMissingPrerequisite is returned when a transition is invoked before
	// the session has what it needs (no session id, no credential, no topic).
	ErrMissingPrerequisite = errors.New("missing prerequisite")

	// ErrNoActiveQuestion is returned when an answer is submitted while no
	// question is pending.
	ErrNoActiveQuestion = errors.New("no active question")

	// ErrGenerationFailed is returned when the actor produced an empty or
	// absent result. The session is left unchanged.
	ErrGenerationFailed = errors.New("generation failed")
)
