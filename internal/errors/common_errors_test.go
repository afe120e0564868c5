package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{
			name:     "file access error type",
			errType:  ErrTypeFileAccess,
			expected: "FILE_ACCESS",
		},
		{
			name:     "schema error type",
			errType:  ErrTypeSchema,
			expected: "SCHEMA",
		},
		{
			name:     "parsing error type",
			errType:  ErrTypeParsing,
			expected: "PARSING",
		},
		{
			name:     "storage error type",
			errType:  ErrTypeStorage,
			expected: "STORAGE",
		},
		{
			name:     "validation error type",
			errType:  ErrTypeValidation,
			expected: "VALIDATION",
		},
		{
			name:     "not found error type",
			errType:  ErrTypeNotFound,
			expected: "NOT_FOUND",
		},
		{
			name:     "config error type",
			errType:  ErrTypeConfig,
			expected: "CONFIG",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeSchema,
				Message: "file A_jan.csv has no timestamp column",
				Cause:   nil,
			},
			wantMessage: "[SCHEMA] file A_jan.csv has no timestamp column",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeFileAccess,
				Message: "failed to open meter file",
				Cause:   fmt.Errorf("permission denied"),
			},
			wantMessage: "[FILE_ACCESS] failed to open meter file: permission denied",
		},
		{
			name: "error with wrapped cause",
			appError: &AppError{
				Type:    ErrTypeParsing,
				Message: "row 12 has unparseable kwh value",
				Cause:   errors.New("strconv.ParseFloat: parsing \"abc\": invalid syntax"),
			},
			wantMessage: "[PARSING] row 12 has unparseable kwh value: strconv.ParseFloat: parsing \"abc\": invalid syntax",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type:    ErrTypeValidation,
				Message: "",
				Cause:   nil,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appError.Error()
			assert.Equal(t, tt.wantMessage, got)
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying failure")

	tests := []struct {
		name     string
		appError *AppError
		want     error
	}{
		{
			name:     "unwraps cause",
			appError: NewStorageError("write failed", cause),
			want:     cause,
		},
		{
			name:     "nil cause unwraps to nil",
			appError: NewSchemaError("missing kwh column"),
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.appError.Unwrap())
		})
	}
}

func TestAppError_ErrorsIsAndAs(t *testing.T) {
	sentinel := errors.New("file vanished")
	err := fmt.Errorf("ingesting: %w", NewFileAccessError("cannot stat meter file", sentinel))

	assert.True(t, errors.Is(err, sentinel))

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, ErrTypeFileAccess, appErr.Type)
}

func TestAppError_WithContext(t *testing.T) {
	err := NewParsingError("bad timestamp", nil).
		WithContext("filename", "B_jan.csv").
		WithContext("row", 7)

	require.NotNil(t, err.Context)
	assert.Equal(t, "B_jan.csv", err.Context["filename"])
	assert.Equal(t, 7, err.Context["row"])
}

func TestAppError_WithContextOnNilMap(t *testing.T) {
	err := &AppError{Type: ErrTypeStorage, Message: "no map yet"}
	err.WithContext("key", "value")

	assert.Equal(t, "value", err.Context["key"])
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorType
	}{
		{
			name: "direct app error",
			err:  NewSchemaError("missing timestamp column"),
			want: ErrTypeSchema,
		},
		{
			name: "wrapped app error",
			err:  fmt.Errorf("stage failed: %w", NewParsingError("bad row", nil)),
			want: ErrTypeParsing,
		},
		{
			name: "plain error",
			err:  errors.New("something else"),
			want: "",
		},
		{
			name: "nil error",
			err:  nil,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TypeOf(tt.err))
		})
	}
}

func TestIsType(t *testing.T) {
	err := NewFileAccessError("unreadable", nil)

	assert.True(t, IsType(err, ErrTypeFileAccess))
	assert.False(t, IsType(err, ErrTypeParsing))
	assert.False(t, IsType(errors.New("plain"), ErrTypeFileAccess))
}

func TestConstructors(t *testing.T) {
	cause := errors.New("cause")

	tests := []struct {
		name     string
		err      *AppError
		wantType ErrorType
	}{
		{name: "file access", err: NewFileAccessError("m", cause), wantType: ErrTypeFileAccess},
		{name: "schema", err: NewSchemaError("m"), wantType: ErrTypeSchema},
		{name: "parsing", err: NewParsingError("m", cause), wantType: ErrTypeParsing},
		{name: "storage", err: NewStorageError("m", cause), wantType: ErrTypeStorage},
		{name: "validation", err: NewAppValidationError("m"), wantType: ErrTypeValidation},
		{name: "config", err: NewConfigError("m", cause), wantType: ErrTypeConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.NotNil(t, tt.err)
			assert.Equal(t, tt.wantType, tt.err.Type)
			assert.NotNil(t, tt.err.Context)
		})
	}
}

func TestNewNotFoundError(t *testing.T) {
	err := NewNotFoundError("cleaned dataset")

	assert.Equal(t, ErrTypeNotFound, err.Type)
	assert.Equal(t, "cleaned dataset not found", err.Message)
}
