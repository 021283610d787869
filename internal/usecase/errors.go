package usecase

import (
	"errors"
	"fmt"
)

// エラーの種類。HTTPステータスへの変換はhandler側の仕事で、
// usecaseはここまでしか決めない。
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindValidation       ErrorKind = "validation"
	KindConflict         ErrorKind = "conflict"
	KindInternal         ErrorKind = "internal"
)

type Error struct {
	Kind    ErrorKind
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func NewError(kind ErrorKind, message string) error {
	return &Error{
		Kind:    kind,
		Message: message,
	}
}

func AsError(err error) (*Error, bool) {
	var ue *Error
	ok := errors.As(err, &ue)
	return ue, ok
}

// よく使うやつ
func notFound(msg string) error         { return NewError(KindNotFound, msg) }
func permissionDenied(msg string) error { return NewError(KindPermissionDenied, msg) }
func validation(msg string) error       { return NewError(KindValidation, msg) }
func conflict(msg string) error         { return NewError(KindConflict, msg) }
func internal(msg string) error         { return NewError(KindInternal, msg) }
