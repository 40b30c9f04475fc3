package domain

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindValidation ErrorKind = "validation"
	KindNotFound   ErrorKind = "not_found"
	KindStorage    ErrorKind = "storage"
)

// Error carries the kind of failure so callers can branch without
// matching message text.
type Error struct {
	Kind ErrorKind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation errors
var (
	ErrEmptyKickTypeName = &Error{Kind: KindValidation, Msg: "kick type name is required"}
	ErrKickTypeNameLong  = &Error{Kind: KindValidation, Msg: "kick type name is too long"}
	ErrInvalidDamage     = &Error{Kind: KindValidation, Msg: "damage must be non-negative"}
	ErrDuplicateKickType = &Error{Kind: KindValidation, Msg: "kick type already exists"}
	ErrKickTypeInUse     = &Error{Kind: KindValidation, Msg: "kick type is referenced by recorded kicks"}
)

// Not-found errors
var (
	ErrDanilaNotFound   = &Error{Kind: KindNotFound, Msg: "danila not found"}
	ErrKickNotFound     = &Error{Kind: KindNotFound, Msg: "kick not found"}
	ErrKickTypeNotFound = &Error{Kind: KindNotFound, Msg: "kick type not found"}
)

// StorageError wraps a store failure that rolled back op.
func StorageError(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindStorage, Msg: op, Err: err}
}

// KindOf classifies err. Errors that carry no kind are treated as storage
// failures.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindStorage
}
