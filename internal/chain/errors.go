package chain

import "errors"

// Failure kinds returned by the explorer client. Callers match them with errors.Is.
var (
	ErrNetwork = errors.New("network error")
	ErrAPI     = errors.New("explorer API error")
	ErrData    = errors.New("unexpected explorer data")
)
