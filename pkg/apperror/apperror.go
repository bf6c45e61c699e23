package apperror

import (
	"errors"
	"fmt"
)

// Kind groups codes into the categories the HTTP layer maps to status codes.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindAuthorization
	KindNotFound
	KindConflict
	KindBusinessRule
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindAuth:
		return "AuthError"
	case KindAuthorization:
		return "AuthorizationError"
	case KindNotFound:
		return "NotFound"
	case KindConflict:
		return "Conflict"
	case KindBusinessRule:
		return "BusinessRuleViolation"
	default:
		return "InternalError"
	}
}

// Code is the discriminant carried by every application error.
type Code int

const (
	Internal Code = iota
	Validation
	Unauthorized
	Forbidden
	NotFound
	UserNotFound
	ProductNotFound
	OrderNotFound
	NoOrdersFound
	Conflict
	DuplicateKey
	EmailAlreadyRegistered
	InvalidCredentials
	InsufficientStock
	NoOpTransition
)

var codeNames = map[Code]string{
	Internal:               "Internal",
	Validation:             "Validation",
	Unauthorized:           "Unauthorized",
	Forbidden:              "Forbidden",
	NotFound:               "NotFound",
	UserNotFound:           "UserNotFound",
	ProductNotFound:        "ProductNotFound",
	OrderNotFound:          "OrderNotFound",
	NoOrdersFound:          "NoOrdersFound",
	Conflict:               "Conflict",
	DuplicateKey:           "DuplicateKey",
	EmailAlreadyRegistered: "EmailAlreadyRegistered",
	InvalidCredentials:     "InvalidCredentials",
	InsufficientStock:      "InsufficientStock",
	NoOpTransition:         "NoOpTransition",
}

func (c Code) String() string {
	if s, ok := codeNames[c]; ok {
		return s
	}
	return fmt.Sprintf("Code(%d)", int(c))
}

// Kind returns the category of c.
func (c Code) Kind() Kind {
	switch c {
	case Validation:
		return KindValidation
	case Unauthorized, InvalidCredentials:
		return KindAuth
	case Forbidden:
		return KindAuthorization
	case NotFound, UserNotFound, ProductNotFound, OrderNotFound, NoOrdersFound:
		return KindNotFound
	case Conflict, DuplicateKey, EmailAlreadyRegistered:
		return KindConflict
	case InsufficientStock, NoOpTransition:
		return KindBusinessRule
	default:
		return KindInternal
	}
}

// Error is a tagged application error.
type Error struct {
	Code    Code
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New builds an error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap tags err with code. The wrapped error is kept for logs only.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// WithDetails returns a copy of e carrying details for the caller.
func (e *Error) WithDetails(details any) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

// CodeOf returns the code of the first *Error in err's chain, or Internal.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return Internal
}

// Is reports whether err carries code.
func Is(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}

// As extracts the *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	ok := errors.As(err, &ae)
	return ae, ok
}
