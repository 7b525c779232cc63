package domain

import "errors"

// Kind classifies a failure so transports can map it to a status code.
type Kind string

const (
	KindUnauthenticated    Kind = "unauthenticated"
	KindForbidden          Kind = "forbidden"
	KindNotFound           Kind = "not_found"
	KindConflict           Kind = "conflict"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindInvalidOperation   Kind = "invalid_operation"
)

// Error is a classified failure with a human readable detail.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

// Is matches any *Error of the same kind, so errors.Is(err, ErrNotFound)
// holds for every not-found error regardless of its detail.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

var (
	ErrUnauthenticated    = &Error{Kind: KindUnauthenticated, Detail: "Not authenticated"}
	ErrForbidden          = &Error{Kind: KindForbidden, Detail: "Not authorized"}
	ErrNotFound           = &Error{Kind: KindNotFound, Detail: "not found"}
	ErrConflict           = &Error{Kind: KindConflict, Detail: "conflict"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Detail: "Invalid credentials"}
	ErrInvalidOperation   = &Error{Kind: KindInvalidOperation, Detail: "invalid operation"}
)

func NotFound(detail string) error         { return &Error{Kind: KindNotFound, Detail: detail} }
func Conflict(detail string) error         { return &Error{Kind: KindConflict, Detail: detail} }
func Forbidden(detail string) error        { return &Error{Kind: KindForbidden, Detail: detail} }
func InvalidOperation(detail string) error { return &Error{Kind: KindInvalidOperation, Detail: detail} }
func Unauthenticated(detail string) error  { return &Error{Kind: KindUnauthenticated, Detail: detail} }

// KindOf returns the kind of the first *Error in err's chain, or "" for
// unclassified (internal) errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
