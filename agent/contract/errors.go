package contract

import (
	"errors"
	"fmt"
)

var (
	ErrModelInvoke     = errors.New("model invoke failed")
	ErrSchemaViolation = errors.New("model response violates schema")
	ErrPromptMissing   = errors.New("required prompt is missing")
	ErrValidation      = errors.New("validation failed")
	ErrToolExecution   = errors.New("tool execution failed")

	ErrToolNotBound          = fmt.Errorf("%w: tool is not bound to agent", ErrSchemaViolation)
	ErrUnrecognizedRoute     = fmt.Errorf("%w: unrecognized route destination", ErrSchemaViolation)
	ErrMaxIterationsExceeded = errors.New("agent exceeded max iterations")
)
