package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType represents the kind of failure raised while converting DAT files
type ErrorType string

const (
	ErrorTypeFileRead      ErrorType = "file_read"
	ErrorTypeDecode        ErrorType = "decode"
	ErrorTypeTrailingChunk ErrorType = "trailing_partial_chunk"
	ErrorTypeWrite         ErrorType = "write"
)

// Sentinels for errors.Is matching against a ParseError's Type.
var (
	ErrFileRead      = &ParseError{Type: ErrorTypeFileRead, Message: "file read failed"}
	ErrDecode        = &ParseError{Type: ErrorTypeDecode, Message: "decode failed"}
	ErrTrailingChunk = &ParseError{Type: ErrorTypeTrailingChunk, Message: "trailing partial chunk"}
	ErrWrite         = &ParseError{Type: ErrorTypeWrite, Message: "write failed"}
)

// ParseError describes a failure tied to a file and, for decode errors, a byte offset
type ParseError struct {
	Type    ErrorType `json:"type"`
	Path    string    `json:"path,omitempty"`
	Offset  int64     `json:"offset"`
	Message string    `json:"message"`
	Cause   error     `json:"cause,omitempty"`
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e == nil {
		return "unknown parse error"
	}
	msg := fmt.Sprintf("[%s] %s", e.Type, e.Message)
	if e.Path != "" {
		msg = fmt.Sprintf("[%s] %s: %s", e.Type, e.Path, e.Message)
	}
	if e.Type == ErrorTypeDecode || e.Type == ErrorTypeTrailingChunk {
		msg = fmt.Sprintf("%s (offset %d)", msg, e.Offset)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is matches any ParseError of the same Type, so callers can test against the sentinels.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	if !ok || e == nil {
		return false
	}
	return e.Type == t.Type
}

// NewFileReadError creates an error for a missing or unreadable input file
func NewFileReadError(path string, cause error) *ParseError {
	return &ParseError{
		Type:    ErrorTypeFileRead,
		Path:    path,
		Message: "cannot read file",
		Cause:   cause,
	}
}

// NewDecodeError creates an error for a malformed record at the given offset
func NewDecodeError(offset int64, message string) *ParseError {
	return &ParseError{
		Type:    ErrorTypeDecode,
		Offset:  offset,
		Message: message,
	}
}

// NewTrailingChunkError reports bytes left over after the last complete record
func NewTrailingChunkError(path string, offset int64, size int) *ParseError {
	return &ParseError{
		Type:    ErrorTypeTrailingChunk,
		Path:    path,
		Offset:  offset,
		Message: fmt.Sprintf("%d trailing bytes do not form a complete record", size),
	}
}

// NewWriteError creates an error for a failed output write
func NewWriteError(path string, cause error) *ParseError {
	return &ParseError{
		Type:    ErrorTypeWrite,
		Path:    path,
		Message: "cannot write output",
		Cause:   cause,
	}
}

// WithPath attaches a file path to a ParseError that does not carry one yet.
// Other errors are returned unchanged.
func WithPath(err error, path string) error {
	var pErr *ParseError
	if stderrors.As(err, &pErr) && pErr.Path == "" {
		pErr.Path = path
	}
	return err
}

// GetErrorType returns the type of the error, or "" for foreign errors
func GetErrorType(err error) ErrorType {
	var pErr *ParseError
	if stderrors.As(err, &pErr) {
		return pErr.Type
	}
	return ""
}
