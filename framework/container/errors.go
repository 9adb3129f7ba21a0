package container

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrorCode classifies container failures.
type ErrorCode uint16

const (
	ErrCodeUnknown ErrorCode = iota
	ErrCodeNotFound
	ErrCodeInvalidSpecification
	ErrCodeMissingAliases
	ErrCodeFrozen
	ErrCodeInvalidIdentifier
	ErrCodeExpectedInvokable
	ErrCodeProtected
	ErrCodeUndefinedClass
	ErrCodeUndefinedMethod
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeNotFound:
		return "not found"
	case ErrCodeInvalidSpecification:
		return "invalid specification"
	case ErrCodeMissingAliases:
		return "missing aliases"
	case ErrCodeFrozen:
		return "frozen service"
	case ErrCodeInvalidIdentifier:
		return "invalid identifier"
	case ErrCodeExpectedInvokable:
		return "expected invokable"
	case ErrCodeProtected:
		return "protected service"
	case ErrCodeUndefinedClass:
		return "undefined class"
	case ErrCodeUndefinedMethod:
		return "undefined method"
	}
	return fmt.Sprintf("code %d", uint16(c))
}

// Error is returned by every container operation. errors.Is compares codes,
// so the sentinels below work as targets:
//
//	if errors.Is(err, container.ErrFrozen) { ... }
type Error struct {
	Code    ErrorCode
	Service string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	parts := []string{"container: " + e.Code.String()}
	if e.Service != "" {
		parts = append(parts, strconv.Quote(e.Service))
	}
	if e.Message != "" {
		parts = append(parts, e.Message)
	}
	if e.Cause != nil {
		parts = append(parts, e.Cause.Error())
	}
	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// WithService returns a copy of e naming the offending service key.
func (e *Error) WithService(service string) *Error {
	cp := *e
	cp.Service = service
	return &cp
}

// Sentinels for errors.Is.
var (
	ErrNotFound             = &Error{Code: ErrCodeNotFound}
	ErrInvalidSpecification = &Error{Code: ErrCodeInvalidSpecification}
	ErrMissingAliases       = &Error{Code: ErrCodeMissingAliases}
	ErrFrozen               = &Error{Code: ErrCodeFrozen}
	ErrInvalidIdentifier    = &Error{Code: ErrCodeInvalidIdentifier}
	ErrExpectedInvokable    = &Error{Code: ErrCodeExpectedInvokable}
	ErrProtected            = &Error{Code: ErrCodeProtected}
	ErrUndefinedClass       = &Error{Code: ErrCodeUndefinedClass}
	ErrUndefinedMethod      = &Error{Code: ErrCodeUndefinedMethod}
)

func newError(code ErrorCode, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

func errNotFound(key string) *Error {
	return newError(ErrCodeNotFound, "identifier is not defined", nil).WithService(key)
}

func errFrozen(key string) *Error {
	return newError(ErrCodeFrozen, "cannot override or extend a resolved service", nil).WithService(key)
}

func errInvalidIdentifier(key string) *Error {
	return newError(ErrCodeInvalidIdentifier, "identifier does not contain an object definition", nil).
		WithService(key)
}

func errProtected(key string) *Error {
	return newError(ErrCodeProtected, "cannot extend a protected service", nil).WithService(key)
}

func errExpectedInvokable(v any) *Error {
	return newError(ErrCodeExpectedInvokable,
		fmt.Sprintf("service definition %T is not a supported factory", v), nil)
}

func errInvalidSpecification(message string) *Error {
	return newError(ErrCodeInvalidSpecification, message, nil)
}

func errMissingAliases() *Error {
	return newError(ErrCodeMissingAliases, "aliases have not been initialized", nil)
}

func errUndefinedClass(name string) *Error {
	return newError(ErrCodeUndefinedClass, fmt.Sprintf("class %q is not defined", name), nil)
}

func errUndefinedMethod(target any, method string) *Error {
	return newError(ErrCodeUndefinedMethod, fmt.Sprintf("call to undefined method %T::%s", target, method), nil)
}

func hasCode(err error, code ErrorCode) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

func IsNotFound(err error) bool             { return hasCode(err, ErrCodeNotFound) }
func IsInvalidSpecification(err error) bool { return hasCode(err, ErrCodeInvalidSpecification) }
func IsMissingAliases(err error) bool       { return hasCode(err, ErrCodeMissingAliases) }
func IsFrozen(err error) bool               { return hasCode(err, ErrCodeFrozen) }
func IsInvalidIdentifier(err error) bool    { return hasCode(err, ErrCodeInvalidIdentifier) }
func IsExpectedInvokable(err error) bool    { return hasCode(err, ErrCodeExpectedInvokable) }
func IsProtected(err error) bool            { return hasCode(err, ErrCodeProtected) }
func IsUndefinedClass(err error) bool       { return hasCode(err, ErrCodeUndefinedClass) }
func IsUndefinedMethod(err error) bool      { return hasCode(err, ErrCodeUndefinedMethod) }
