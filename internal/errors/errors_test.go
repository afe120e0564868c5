package errors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAPIError_Error(t *testing.T) {
	tests := []struct {
		name     string
		apiError *APIError
		want     string
	}{
		{
			name: "simple message",
			apiError: &APIError{
				StatusCode: http.StatusBadRequest,
				ErrorCode:  "INVALID_REQUEST",
				Message:    "Invalid request format",
			},
			want: "Invalid request format",
		},
		{
			name: "empty message",
			apiError: &APIError{
				StatusCode: http.StatusInternalServerError,
				ErrorCode:  "INTERNAL_ERROR",
				Message:    "",
			},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.apiError.Error()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAPIError_Render(t *testing.T) {
	tests := []struct {
		name       string
		apiError   *APIError
		wantStatus int
	}{
		{
			name:       "bad request error",
			apiError:   ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "internal server error",
			apiError:   ErrInternalServer,
			wantStatus: http.StatusInternalServerError,
		},
		{
			name:       "dataset not found error",
			apiError:   ErrDatasetNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest("GET", "/test", nil)

			err := tt.apiError.Render(w, r)
			assert.NoError(t, err)
		})
	}
}

func TestNew(t *testing.T) {
	got := New(http.StatusConflict, "CONFLICT", "Resource conflict")

	require.NotNil(t, got)
	assert.Equal(t, http.StatusConflict, got.StatusCode)
	assert.Equal(t, "CONFLICT", got.ErrorCode)
	assert.Equal(t, "Resource conflict", got.Message)
	assert.Nil(t, got.Details)
}

func TestNewWithDetails(t *testing.T) {
	details := map[string]string{"file": "cleaned_energy_data.csv"}
	got := NewWithDetails(http.StatusNotFound, "DATASET_NOT_FOUND", "missing artifact", details)

	require.NotNil(t, got)
	assert.Equal(t, http.StatusNotFound, got.StatusCode)
	assert.Equal(t, details, got.Details)
}

func TestPredefinedErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        *APIError
		wantStatus int
		wantCode   string
	}{
		{
			name:       "ErrInvalidRequest",
			err:        ErrInvalidRequest,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "ErrValidationFailed",
			err:        ErrValidationFailed,
			wantStatus: http.StatusBadRequest,
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "ErrNotFound",
			err:        ErrNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "NOT_FOUND",
		},
		{
			name:       "ErrDatasetNotFound",
			err:        ErrDatasetNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "DATASET_NOT_FOUND",
		},
		{
			name:       "ErrReportNotFound",
			err:        ErrReportNotFound,
			wantStatus: http.StatusNotFound,
			wantCode:   "REPORT_NOT_FOUND",
		},
		{
			name:       "ErrRateLimitExceeded",
			err:        ErrRateLimitExceeded,
			wantStatus: http.StatusTooManyRequests,
			wantCode:   "RATE_LIMIT_EXCEEDED",
		},
		{
			name:       "ErrInternalServer",
			err:        ErrInternalServer,
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_SERVER_ERROR",
		},
		{
			name:       "ErrServiceUnavailable",
			err:        ErrServiceUnavailable,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantStatus, tt.err.StatusCode)
			assert.Equal(t, tt.wantCode, tt.err.ErrorCode)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestErrValidation(t *testing.T) {
	got := ErrValidation("building", "building identifier is required")

	assert.Equal(t, http.StatusBadRequest, got.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", got.ErrorCode)

	detail, ok := got.Details.(ValidationError)
	require.True(t, ok)
	assert.Equal(t, "building", detail.Field)
	assert.Equal(t, "building identifier is required", detail.Message)
}

func TestNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		resource string
		wantMsg  string
	}{
		{
			name:     "dataset not found",
			resource: "cleaned dataset",
			wantMsg:  "cleaned dataset not found",
		},
		{
			name:     "dashboard not found",
			resource: "dashboard.png",
			wantMsg:  "dashboard.png not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NotFoundError(tt.resource)
			assert.Equal(t, http.StatusNotFound, got.StatusCode)
			assert.Equal(t, tt.wantMsg, got.Message)
			assert.Equal(t, tt.resource, got.Details)
		})
	}
}

func TestDatasetNotFoundError(t *testing.T) {
	got := DatasetNotFoundError(errors.New("open output/cleaned_energy_data.csv: no such file"))

	assert.Equal(t, http.StatusNotFound, got.StatusCode)
	assert.Equal(t, "DATASET_NOT_FOUND", got.ErrorCode)
	assert.Contains(t, got.Details, "no such file")
}

func TestFileSystemError(t *testing.T) {
	got := FileSystemError("summary write", errors.New("disk full"))

	assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
	assert.Equal(t, "FILESYSTEM_ERROR", got.ErrorCode)
	assert.Contains(t, got.Message, "summary write")
	assert.Equal(t, "disk full", got.Details)
}

func TestNewValidationErrors(t *testing.T) {
	fields := []ValidationError{
		{Field: "from", Message: "invalid date"},
		{Field: "to", Message: "invalid date"},
	}

	got := NewValidationErrors(fields)

	assert.Equal(t, http.StatusBadRequest, got.StatusCode)
	detail, ok := got.Details.(ValidationErrors)
	require.True(t, ok)
	assert.Len(t, detail.Errors, 2)
}

func TestErrPanic(t *testing.T) {
	got := ErrPanic("slice index out of range")

	assert.Equal(t, http.StatusInternalServerError, got.StatusCode)
	rec, ok := got.Details.(PanicRecovery)
	require.True(t, ok)
	assert.Equal(t, "slice index out of range", rec.Message)
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, ErrDatasetNotFound)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "DATASET_NOT_FOUND", resp.Error.ErrorCode)
}

func TestNewErrorResponse(t *testing.T) {
	resp := NewErrorResponse(ErrConflict)

	assert.False(t, resp.Success)
	assert.Equal(t, ErrConflict, resp.Error)
}
