package core

import (
	"errors"
)

var (
	ErrUserDataSet     = errors.New("user data already holds a value")
	ErrUnknownKey      = errors.New("unknown key")
	ErrListenerExists  = errors.New("listener already registered for event code")
	ErrListenerMissing = errors.New("listener not registered for event code")
)
