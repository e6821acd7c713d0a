package domain

import "errors"

// Kind classifies failures surfaced by the generation core.
type Kind string

const (
	KindValidation Kind = "validation"
	KindStorage    Kind = "storage"
	KindIO         Kind = "io"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrTriggerMissing    = errors.New("trigger word missing")
	ErrTriggerDuplicated = errors.New("trigger word duplicated")
	ErrNoFace            = errors.New("no face detected")
	ErrNoImages          = errors.New("no images staged")
	ErrInvalidParameters = errors.New("invalid parameters")
	ErrBusy              = errors.New("generator busy")
)

// Error carries a Kind alongside the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return e.Msg + ": " + e.Err.Error()
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind) + " error"
}

func (e *Error) Unwrap() error { return e.Err }

// ValidationError wraps err (usually one of the sentinels above) as a validation failure.
func ValidationError(err error) error {
	return &Error{Kind: KindValidation, Err: err}
}

// StorageError reports a malformed or unreadable preset document.
func StorageError(msg string, err error) error {
	return &Error{Kind: KindStorage, Msg: msg, Err: err}
}

// IOError reports an unreadable or undecodable file.
func IOError(msg string, err error) error {
	return &Error{Kind: KindIO, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}
