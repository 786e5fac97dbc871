// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInvalidBasePrice indicates the base price is not a non-negative number
	TypeInvalidBasePrice Type = "INVALID_BASE_PRICE"

	// TypeMissingLanguage indicates no language was selected
	TypeMissingLanguage Type = "MISSING_LANGUAGE"

	// TypeMissingCondition indicates no condition was selected
	TypeMissingCondition Type = "MISSING_CONDITION"

	// TypeMissingLanguageAndCondition indicates neither language nor condition was selected
	TypeMissingLanguageAndCondition Type = "MISSING_LANGUAGE_AND_CONDITION"

	// TypeImpossibleVariant indicates a card variant that is never printed
	TypeImpossibleVariant Type = "IMPOSSIBLE_VARIANT"

	// TypeUnknownOption indicates a language or condition outside the modifier table
	TypeUnknownOption Type = "UNKNOWN_OPTION"

	// TypeConfig indicates a configuration error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// input lists the types caused by user input.
var input = map[Type]bool{
	TypeInvalidBasePrice:            true,
	TypeMissingLanguage:             true,
	TypeMissingCondition:            true,
	TypeMissingLanguageAndCondition: true,
	TypeImpossibleVariant:           true,
	TypeUnknownOption:               true,
}

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// OfType checks if the error is of a specific type
func (e *Error) OfType(t Type) bool {
	return e != nil && e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// ContextString returns a string context value, or "" when absent
func (e *Error) ContextString(key string) string {
	if v, ok := e.Context[key].(string); ok {
		return v
	}
	return ""
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// As extracts the first *Error in err's chain
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsType checks if an error is of a specific type
func IsType(err error, t Type) bool {
	if e, ok := As(err); ok {
		return e.OfType(t)
	}
	return false
}

// IsInput reports whether err was caused by user input rather than the system
func IsInput(err error) bool {
	if e, ok := As(err); ok {
		return input[e.Type]
	}
	return false
}

// TypeOf returns the error type, or TypeInternal for foreign errors
func TypeOf(err error) Type {
	if e, ok := As(err); ok {
		return e.Type
	}
	return TypeInternal
}

// InvalidBasePrice creates a base price error
func InvalidBasePrice(raw string, cause error) *Error {
	return Wrap(TypeInvalidBasePrice, fmt.Sprintf("base price %q must be a non-negative number", raw), cause)
}

// ImpossibleVariant creates an impossible variant error for the given rule
func ImpossibleVariant(rule, language string) *Error {
	return Newf(TypeImpossibleVariant, "%s cards of this variant do not exist", language).
		WithContext("rule", rule).
		WithContext("language", language)
}

// UnknownOption creates an unknown option error
func UnknownOption(kind, value string, suggestions []string) *Error {
	e := Newf(TypeUnknownOption, "unknown %s %q", kind, value).
		WithContext("kind", kind).
		WithContext("value", value)
	if len(suggestions) > 0 {
		e.WithContext("suggestions", suggestions)
	}
	return e
}

// Config creates a configuration error
func Config(message string, cause error) *Error {
	return Wrap(TypeConfig, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
