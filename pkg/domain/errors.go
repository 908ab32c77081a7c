package domain

import "errors"

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrInvalidPayload is returned when an action payload cannot be decoded or fails validation.
var ErrInvalidPayload = errors.New("invalid action payload")

// ErrNotFound is returned when an action references an automaton, node,
// transition or signal that does not exist.
var ErrNotFound = errors.New("referenced entity not found")

// ErrConflict is returned when a name, number or symbol is already taken.
var ErrConflict = errors.New("already in use")
