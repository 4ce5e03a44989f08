package shader

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySource     = errors.New("shader source is empty")
	ErrNoEntryPoint    = errors.New("shader has no main function")
	ErrWrongStage      = errors.New("shader stage does not match its slot")
	ErrNotCompiled     = errors.New("shader is not compiled")
	ErrNotLinked       = errors.New("program is not linked")
	ErrUniformNotFound = errors.New("uniform not found")
	ErrUniformType     = errors.New("uniform value has the wrong type")
	ErrUnknownBuiltin  = errors.New("unknown builtin program")
)

// CompileError reports which shader or program failed and why.
type CompileError struct {
	Name string
	Err  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("shader %s: %v", e.Name, e.Err)
}

func (e *CompileError) Unwrap() error {
	return e.Err
}
