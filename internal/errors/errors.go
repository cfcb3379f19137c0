// Package errors defines the structured error taxonomy shared by every
// texshelf component. Errors carry a category, a stable code, and
// optional context so the CLI can decide what aborts an invocation
// (profile errors) and what is merely recorded against a single target
// in a batch operation (everything else).
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeProfile    ErrorType = "profile"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeResolution ErrorType = "resolution"
	ErrorTypeTemplate   ErrorType = "template"
	ErrorTypeIO         ErrorType = "io"
	ErrorTypeCompile    ErrorType = "compile"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeInternal   ErrorType = "internal"
)

// TexshelfError is a structured error type with context.
type TexshelfError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Path        string
	Recoverable bool
}

// Error implements the error interface.
func (e *TexshelfError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Path != "" {
		parts = append(parts, e.Path)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *TexshelfError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *TexshelfError) Is(target error) bool {
	var t *TexshelfError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *TexshelfError) WithContext(key string, value interface{}) *TexshelfError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithPath attaches the filesystem path the error relates to.
func (e *TexshelfError) WithPath(path string) *TexshelfError {
	e.Path = path

	return e
}

// Common error codes.
const (
	ErrCodeProfileNotFound  = "ERR_PROFILE_NOT_FOUND"
	ErrCodeProfileInvalid   = "ERR_PROFILE_INVALID"
	ErrCodeProfileExists    = "ERR_PROFILE_EXISTS"
	ErrCodeMetadataInvalid  = "ERR_METADATA_INVALID"
	ErrCodeSubjectNotFound  = "ERR_SUBJECT_NOT_FOUND"
	ErrCodeNoteNotFound     = "ERR_NOTE_NOT_FOUND"
	ErrCodeTemplateInvalid  = "ERR_TEMPLATE_INVALID"
	ErrCodeTemplateRender   = "ERR_TEMPLATE_RENDER"
	ErrCodeTemplateMissing  = "ERR_TEMPLATE_MISSING"
	ErrCodeAlreadyExists    = "ERR_ALREADY_EXISTS"
	ErrCodeIOFailed         = "ERR_IO_FAILED"
	ErrCodeCompileFailed    = "ERR_COMPILE_FAILED"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeInternalError    = "ERR_INTERNAL"
)

// NewProfileError creates a profile error. Profile errors are the only
// category that aborts a whole invocation.
func NewProfileError(code, message string, cause error) *TexshelfError {
	return &TexshelfError{
		Type:        ErrorTypeProfile,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewParseError creates a metadata parse error.
func NewParseError(code, message string, cause error) *TexshelfError {
	return &TexshelfError{
		Type:        ErrorTypeParse,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewResolutionError creates a subject/note resolution error.
func NewResolutionError(code, message string) *TexshelfError {
	return &TexshelfError{
		Type:        ErrorTypeResolution,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewTemplateError creates a template error.
func NewTemplateError(code, message string, cause error) *TexshelfError {
	return &TexshelfError{
		Type:        ErrorTypeTemplate,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewIOError creates an I/O error.
func NewIOError(code, message string, cause error) *TexshelfError {
	return &TexshelfError{
		Type:        ErrorTypeIO,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewCompileError creates a compile outcome error. Compile errors are
// recorded per note and never escalate to a process-level failure.
func NewCompileError(code, message string, cause error) *TexshelfError {
	return &TexshelfError{
		Type:        ErrorTypeCompile,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *TexshelfError {
	return &TexshelfError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *TexshelfError {
	return &TexshelfError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// IsRecoverable checks if an error is recoverable within a batch
// operation.
func IsRecoverable(err error) bool {
	var te *TexshelfError
	if errors.As(err, &te) {
		return te.Recoverable
	}

	return false
}

// IsProfileError checks if an error is profile-related.
func IsProfileError(err error) bool {
	var te *TexshelfError
	if errors.As(err, &te) {
		return te.Type == ErrorTypeProfile
	}

	return false
}

// IsResolutionError checks if an error is resolution-related.
func IsResolutionError(err error) bool {
	var te *TexshelfError
	if errors.As(err, &te) {
		return te.Type == ErrorTypeResolution
	}

	return false
}

// IsTemplateError checks if an error is template-related.
func IsTemplateError(err error) bool {
	var te *TexshelfError
	if errors.As(err, &te) {
		return te.Type == ErrorTypeTemplate
	}

	return false
}

// Helper constructors for common errors.

// ErrSubjectNotFound creates a subject resolution error.
func ErrSubjectNotFound(name string) *TexshelfError {
	return NewResolutionError(ErrCodeSubjectNotFound, "subject not found: "+name)
}

// ErrNoteNotFound creates a note resolution error.
func ErrNoteNotFound(title string) *TexshelfError {
	return NewResolutionError(ErrCodeNoteNotFound, "note not found: "+title)
}

// ErrAlreadyExists creates an already-exists write error.
func ErrAlreadyExists(path string) *TexshelfError {
	return NewIOError(ErrCodeAlreadyExists, "target already exists", nil).WithPath(path)
}

// ErrTemplateMissing creates a missing-template error.
func ErrTemplateMissing(name string) *TexshelfError {
	return NewTemplateError(ErrCodeTemplateMissing, "template not registered: "+name, nil)
}
