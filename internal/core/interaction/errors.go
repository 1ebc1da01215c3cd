package interaction

import (
	"errors"
	"strings"
)

var (
	ErrFinished         = errors.New("interactable already finished")
	ErrUnknownKind      = errors.New("unknown interaction kind")
	ErrUnknownLifecycle = errors.New("unknown lifecycle mode")
	ErrInvalidConfig    = errors.New("invalid interaction config")
	ErrNilRegistry      = errors.New("registry is nil")
)

// ActivationError lists every missing activation precondition.
type ActivationError struct {
	Interactable ID
	Problems     []string
}

func (e *ActivationError) Error() string {
	return "activate " + string(e.Interactable) + ": " + strings.Join(e.Problems, "; ")
}
