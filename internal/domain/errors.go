package domain

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrCategoryInUse = errors.New("category is used by at least one product")
	ErrDuplicate     = errors.New("already exists")
)

// ErrKind classifies failures raised by the model-API adapter layer so callers
// can pick a user-facing message without matching on error strings.
type ErrKind int

const (
	ErrKindGeneric ErrKind = iota
	ErrKindMissingCredential
	ErrKindBadCredential
	ErrKindModelUnavailable
	ErrKindNetwork
)

type APIError struct {
	Kind ErrKind
	Err  error
}

func (e *APIError) Error() string {
	if e.Err == nil {
		return "api error"
	}
	return e.Err.Error()
}

func (e *APIError) Unwrap() error { return e.Err }

// KindOf returns the classification of err, or ErrKindGeneric when err does not
// come from the adapter layer.
func KindOf(err error) ErrKind {
	var ae *APIError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return ErrKindGeneric
}
