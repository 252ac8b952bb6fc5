package session

import "errors"

var (
	// ErrAlreadyExists is returned when registering a session under a key
	// that is already occupied.
	ErrAlreadyExists = errors.New("session already exists")

	// ErrNotFound is returned when an operation references an unknown key.
	ErrNotFound = errors.New("session not found")

	// ErrNotOwner is returned when start-now is requested by someone other
	// than the recorded creator.
	ErrNotOwner = errors.New("only the creator is allowed to start the session")

	// ErrAlreadyJoined is returned when a user joins a session twice.
	ErrAlreadyJoined = errors.New("already a participant")

	// ErrNotSubscribed is returned when a leaving user is in no session of
	// the conversation.
	ErrNotSubscribed = errors.New("not subscribed to any session")

	// ErrNoEligibleSession is returned when a conversation has no session
	// waiting to start.
	ErrNoEligibleSession = errors.New("no session waiting to start")
)
