package exchange

import "errors"

var (
	// ErrSkillNotFound: the requested skill does not exist.
	ErrSkillNotFound = errors.New("skill not found")
	// ErrRequestNotFound: the request does not exist.
	ErrRequestNotFound = errors.New("request not found")
	// ErrSessionNotFound: the session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSelfRequest: a member may not request their own skill.
	ErrSelfRequest = errors.New("cannot request your own skill")
	// ErrUnauthorized: the acting member is not the party entitled to act.
	ErrUnauthorized = errors.New("not authorized to act on this resource")
	// ErrRequestClosed: the request already reached the opposite terminal state.
	ErrRequestClosed = errors.New("request already settled")
	// ErrAlreadyCompleted: the session was completed before; completion is one-way.
	ErrAlreadyCompleted = errors.New("session already completed")
)
