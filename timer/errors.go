package timer

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid timer config")
	ErrClosed        = errors.New("timer closed")
)
