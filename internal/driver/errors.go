package driver

import "errors"

// Session registry errors
var (
	ErrSessionNotInitialized = errors.New("browser session is not initialized, call Start first")
	ErrSessionAlreadyActive  = errors.New("browser session is already active for this worker")
	ErrUnknownWorker         = errors.New("unknown worker")
)
