package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted      = errors.New("service not started")
	ErrUnknownDetector = errors.New("unknown detector kind")
	ErrSessionEnded    = errors.New("session already ended")
)
