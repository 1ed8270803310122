// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package errors

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2"
)

// Kind defines the category of error.
type Kind int

const (
	KindUnknown Kind = iota
	KindInternal
	KindValidation
	KindNotFound
	KindTypeSyntax
	KindDuplicateAttribute
)

func (k Kind) String() string {
	switch k {
	case KindInternal:
		return "internal"
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindTypeSyntax:
		return "type_syntax"
	case KindDuplicateAttribute:
		return "duplicate_attribute"
	default:
		return "unknown"
	}
}

// Error represents a structured error in the kcldoc core.
type Error struct {
	Kind       Kind
	Message    string
	Underlying error
	Subject    *hcl.Range
	Attributes map[string]any
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Underlying)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Underlying
}

// New creates a new Error of the specified kind.
func New(kind Kind, msg string) error {
	return &Error{
		Kind:    kind,
		Message: msg,
	}
}

// Errorf creates a new Error of the specified kind with a formatted message.
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error as a new Error of the specified kind.
func Wrap(err error, kind Kind, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:       kind,
		Message:    msg,
		Underlying: err,
	}
}

// Wrapf wraps an existing error as a new Error of the specified kind with a formatted message.
func Wrapf(err error, kind Kind, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return &Error{
		Kind:       kind,
		Message:    fmt.Sprintf(format, args...),
		Underlying: err,
	}
}

// At attaches a source range to an error. If the error is not an *Error, it wraps it as KindInternal.
func At(err error, rng hcl.Range) error {
	if err == nil {
		return nil
	}
	e := asError(err)
	r := rng
	e.Subject = &r
	return e
}

// Attr attaches an attribute to an error. If the error is not an *Error, it wraps it as KindInternal.
func Attr(err error, key string, val any) error {
	if err == nil {
		return nil
	}

	e := asError(err)
	if e.Attributes == nil {
		e.Attributes = make(map[string]any)
	}
	e.Attributes[key] = val
	return e
}

func asError(err error) *Error {
	var e *Error
	if !errors.As(err, &e) {
		e = &Error{
			Kind:       KindInternal,
			Message:    err.Error(),
			Underlying: err,
		}
	}
	return e
}

// GetKind returns the Kind of the error, or KindUnknown if it's not a kcldoc error.
func GetKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// GetSubject returns the first source range found in the error chain.
func GetSubject(err error) *hcl.Range {
	tempErr := err
	for tempErr != nil {
		var e *Error
		if !errors.As(tempErr, &e) {
			return nil
		}
		if e.Subject != nil {
			return e.Subject
		}
		tempErr = e.Underlying
	}
	return nil
}

// GetAttributes returns all attributes associated with the error and its chain.
func GetAttributes(err error) map[string]any {
	attrs := make(map[string]any)
	var e *Error

	tempErr := err
	for tempErr != nil {
		if errors.As(tempErr, &e) {
			for k, v := range e.Attributes {
				if _, ok := attrs[k]; !ok {
					attrs[k] = v
				}
			}
			tempErr = e.Underlying
		} else {
			break
		}
	}

	return attrs
}

// Diagnostic converts err into an error-severity hcl.Diagnostic, keeping its source range.
func Diagnostic(err error) *hcl.Diagnostic {
	if err == nil {
		return nil
	}
	diag := &hcl.Diagnostic{
		Severity: hcl.DiagError,
		Summary:  err.Error(),
		Subject:  GetSubject(err),
	}
	if k := GetKind(err); k != KindUnknown {
		diag.Extra = k
	}
	return diag
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target, and if so, sets target to that error value and returns true.
func As(err error, target any) bool {
	return errors.As(err, target)
}

// Unwrap returns the result of calling the Unwrap method on err, if err's type contains an Unwrap method returning error.
func Unwrap(err error) error {
	return errors.Unwrap(err)
}
