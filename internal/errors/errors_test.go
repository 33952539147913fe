package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name:     "file read with cause",
			err:      NewFileReadError("data/000001.DAT", fs.ErrNotExist),
			expected: "[file_read] data/000001.DAT: cannot read file: file does not exist",
		},
		{
			name:     "decode without path",
			err:      NewDecodeError(128, "timestamp 0 outside valid range"),
			expected: "[decode] timestamp 0 outside valid range (offset 128)",
		},
		{
			name:     "trailing chunk",
			err:      NewTrailingChunkError("a.DAT", 640, 10),
			expected: "[trailing_partial_chunk] a.DAT: 10 trailing bytes do not form a complete record (offset 640)",
		},
		{
			name:     "nil receiver",
			err:      nil,
			expected: "unknown parse error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_IsMatchesType(t *testing.T) {
	err := fmt.Errorf("parse 000001: %w", NewDecodeError(0, "short block"))

	assert.True(t, stderrors.Is(err, ErrDecode))
	assert.False(t, stderrors.Is(err, ErrFileRead))
	assert.False(t, stderrors.Is(err, ErrTrailingChunk))
}

func TestParseError_Unwrap(t *testing.T) {
	err := NewFileReadError("missing.DAT", fs.ErrNotExist)

	assert.True(t, stderrors.Is(err, fs.ErrNotExist))
	assert.True(t, stderrors.Is(err, ErrFileRead))

	var nilErr *ParseError
	assert.Nil(t, nilErr.Unwrap())
}

func TestWithPath(t *testing.T) {
	err := WithPath(NewDecodeError(64, "bad"), "x.DAT")
	var pErr *ParseError
	assert.True(t, stderrors.As(err, &pErr))
	assert.Equal(t, "x.DAT", pErr.Path)

	// existing path is kept
	err = WithPath(NewFileReadError("a.DAT", nil), "b.DAT")
	assert.True(t, stderrors.As(err, &pErr))
	assert.Equal(t, "a.DAT", pErr.Path)

	plain := stderrors.New("plain")
	assert.Equal(t, plain, WithPath(plain, "c.DAT"))
}

func TestGetErrorType(t *testing.T) {
	assert.Equal(t, ErrorTypeWrite, GetErrorType(NewWriteError("out.csv", nil)))
	assert.Equal(t, ErrorTypeDecode, GetErrorType(fmt.Errorf("wrapped: %w", ErrDecode)))
	assert.Equal(t, ErrorType(""), GetErrorType(stderrors.New("other")))
	assert.Equal(t, ErrorType(""), GetErrorType(nil))
}
