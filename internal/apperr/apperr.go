// Package apperr is the error taxonomy shared by services and handlers.
// Services return *Error; handlers map Kind to an HTTP status in one place.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	Unknown Kind = iota
	Validation
	DuplicateKey
	Cast
	NotFound
	Unauthorized
	EmptyCart
	UnsellableItem
	ProductUnavailable
	Forbidden
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "ValidationError"
	case DuplicateKey:
		return "DuplicateKey"
	case Cast:
		return "CastError"
	case NotFound:
		return "NotFound"
	case Unauthorized:
		return "Unauthorized"
	case EmptyCart:
		return "EmptyCart"
	case UnsellableItem:
		return "UnsellableItem"
	case ProductUnavailable:
		return "ProductUnavailable"
	case Forbidden:
		return "Forbidden"
	default:
		return "Unknown"
	}
}

// Status is the HTTP status for a kind.
func (k Kind) Status() int {
	switch k {
	case Validation, Cast, EmptyCart, UnsellableItem:
		return http.StatusBadRequest
	case DuplicateKey:
		return http.StatusConflict
	case NotFound, ProductUnavailable:
		return http.StatusNotFound
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func (k Kind) defaultMessage() string {
	switch k {
	case Validation:
		return "invalid input"
	case DuplicateKey:
		return "account already registered"
	case Cast:
		return "malformed id"
	case NotFound:
		return "not found"
	case Unauthorized:
		return "unauthorized"
	case EmptyCart:
		return "cart is empty"
	case UnsellableItem:
		return "cart contains unlisted products"
	case ProductUnavailable:
		return "product not found"
	case Forbidden:
		return "forbidden"
	default:
		return "internal error"
	}
}

// Reason narrows Unauthorized failures.
type Reason string

const (
	TokenMissing       Reason = "TOKEN_MISSING"
	TokenMalformed     Reason = "TOKEN_MALFORMED"
	TokenExpired       Reason = "TOKEN_EXPIRED"
	TokenRevoked       Reason = "TOKEN_REVOKED"
	InvalidCredentials Reason = "INVALID_CREDENTIALS"
)

type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	// Fields holds per-field messages for Validation errors.
	Fields map[string]string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Kind, and on Reason when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

// PublicMessage is what the client sees. Unknown errors never expose details.
func (e *Error) PublicMessage() string {
	if e.Kind == Unknown || e.Message == "" {
		return e.Kind.defaultMessage()
	}
	return e.Message
}

// Sentinels for errors.Is.
var (
	ErrValidation         = &Error{Kind: Validation}
	ErrDuplicateKey       = &Error{Kind: DuplicateKey}
	ErrCast               = &Error{Kind: Cast}
	ErrNotFound           = &Error{Kind: NotFound}
	ErrUnauthorized       = &Error{Kind: Unauthorized}
	ErrEmptyCart          = &Error{Kind: EmptyCart}
	ErrUnsellableItem     = &Error{Kind: UnsellableItem}
	ErrProductUnavailable = &Error{Kind: ProductUnavailable}
	ErrForbidden          = &Error{Kind: Forbidden}
	ErrUnknown            = &Error{Kind: Unknown}
)

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

func Unauth(reason Reason, msg string, err error) *Error {
	return &Error{Kind: Unauthorized, Reason: reason, Message: msg, Err: err}
}

func Invalid(field, msg string) *Error {
	return &Error{Kind: Validation, Message: msg, Fields: map[string]string{field: msg}}
}

// From returns err as *Error, treating anything untagged as Unknown.
func From(err error) *Error {
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return &Error{Kind: Unknown, Err: err}
}

func KindOf(err error) Kind {
	if err == nil {
		return Unknown
	}
	return From(err).Kind
}
