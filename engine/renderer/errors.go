package renderer

import "errors"

var (
	ErrOutOfBounds = errors.New("indexes are out of bound")
	ErrInvalidSize = errors.New("size must be positive")
	ErrFrameOpen   = errors.New("frame already begun")
	ErrNoFrame     = errors.New("no frame in progress")
)
