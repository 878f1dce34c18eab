// Package corerr declares confkit's flat error taxonomy. Each variant
// carries a typed detail payload and wraps its cause with %w.
package corerr

import (
	"errors"
	"fmt"
)

// Code is one entry in the flat error taxonomy.
type Code string

const (
	CodeValidation         Code = "configuration/validation"
	CodeExtraKeys          Code = "configuration/extra_keys"
	CodeSchemaInvalid      Code = "configuration/schema"
	CodeNotFound           Code = "filesystem/not_found"
	CodeNotReadable        Code = "filesystem/not_readable"
	CodeNotWritable        Code = "filesystem/not_writable"
	CodeCreationFailed     Code = "filesystem/creation_failed"
	CodeOperationFailed    Code = "filesystem/operation_failed"
	CodeArgumentInvalid    Code = "argument/invalid"
	CodeMCPInvalidConfig   Code = "mcp/invalid_config"
	CodeMCPMissingContext  Code = "mcp/missing_context"
	CodeMCPMissingResolver Code = "mcp/missing_resolver"
)

// Error is the single error type every confkit package raises. Detail is
// taxonomy-specific (e.g. *ValidationDetail, *ExtraKeysDetail) and may be
// nil for codes that need no structured payload.
type Error struct {
	Code   Code
	Msg    string
	Detail any
	Cause  error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// Code itself does not implement error, so errors.Is(err, corerr.CodeX)
// does not work; use HasCode below, which unwraps with errors.As.

func New(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

func Wrap(code Code, msg string, cause error) *Error {
	return &Error{Code: code, Msg: msg, Cause: cause}
}

func WithDetail(code Code, msg string, detail any) *Error {
	return &Error{Code: code, Msg: msg, Detail: detail}
}

// HasCode reports whether err is (or wraps) a *Error with the given code.
func HasCode(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// ValidationDetail carries go-playground/validator's per-field failures for
// the configuration/validation code.
type ValidationDetail struct {
	Fields []FieldError
}

type FieldError struct {
	Field string
	Tag   string
	Param string
	Value any
}

// ExtraKeysDetail carries both the offending and allowed key lists for the
// configuration/extra_keys code.
type ExtraKeysDetail struct {
	OffendingKeys []string
	AllowedKeys   []string
}
