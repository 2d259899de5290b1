package apperror

import "errors"

var (
	ErrFileAccess      = errors.New("table file is not accessible")
	ErrMalformedRecord = errors.New("malformed table record")
	ErrInvalidState    = errors.New("no empty cell left on the board")
	ErrNotReady        = errors.New("move table is not loaded yet")
	ErrSessionFinished = errors.New("game session is already finished")
)
