package service

import "errors"

// Analysis flow failures. Each one is wrapped with details using
// fmt.Errorf("%w: ...") so callers can tell the failing phase apart with errors.Is.
var (
	ErrInvalidRequest      = errors.New("invalid request")
	ErrWriteFailure        = errors.New("trigger write failed")
	ErrWorkerLaunchFailure = errors.New("worker launch failed")
	ErrTimeout             = errors.New("analysis timed out")
	ErrReadFailure         = errors.New("trigger read failed")
)
