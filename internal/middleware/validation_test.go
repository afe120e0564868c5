package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"log/slog"
	"os"

	apierrors "energycli/internal/errors"
)

func newTestValidationMiddleware() *ValidationMiddleware {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	errorHandler := apierrors.NewErrorHandler(logger, false)
	return NewValidationMiddleware(logger, errorHandler)
}

func TestValidationMiddleware_ValidateRequest(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		body           string
		contentLength  int64
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "get request passes through",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
		},
		{
			name:           "valid json body passes through",
			method:         http.MethodPost,
			body:           `{"building":"Library"}`,
			expectedStatus: http.StatusOK,
			expectedBody:   "OK",
		},
		{
			name:           "invalid json body rejected",
			method:         http.MethodPost,
			body:           `{"building":`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"INVALID_JSON"`,
		},
		{
			name:           "oversized body rejected",
			method:         http.MethodPost,
			body:           "{}",
			contentLength:  20 * 1024 * 1024,
			expectedStatus: http.StatusRequestEntityTooLarge,
			expectedBody:   `"PAYLOAD_TOO_LARGE"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestValidationMiddleware()

			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK"))
			})

			req := httptest.NewRequest(tt.method, "/api/test", strings.NewReader(tt.body))
			if tt.contentLength > 0 {
				req.ContentLength = tt.contentLength
			}
			rec := httptest.NewRecorder()

			m.ValidateRequest(testHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.expectedBody)
		})
	}
}

func TestValidationMiddleware_ValidateStruct(t *testing.T) {
	type reportQuery struct {
		Building string `json:"building" validate:"omitempty,building"`
		Date     string `json:"date" validate:"omitempty,iso8601"`
		Artifact string `json:"artifact" validate:"omitempty,filename"`
	}

	tests := []struct {
		name    string
		input   reportQuery
		wantErr bool
	}{
		{
			name:    "all fields valid",
			input:   reportQuery{Building: "Science Center", Date: "2024-01-15", Artifact: "cleaned_readings.csv"},
			wantErr: false,
		},
		{
			name:    "empty fields valid",
			input:   reportQuery{},
			wantErr: false,
		},
		{
			name:    "building with path separator",
			input:   reportQuery{Building: "../etc"},
			wantErr: true,
		},
		{
			name:    "malformed date",
			input:   reportQuery{Date: "2024/01/15"},
			wantErr: true,
		},
		{
			name:    "artifact with traversal",
			input:   reportQuery{Artifact: "../secret.txt"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestValidationMiddleware()
			err := m.ValidateStruct(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidationMiddleware_ValidateStruct_ErrorMessage(t *testing.T) {
	type query struct {
		Building string `json:"building" validate:"building"`
	}

	m := newTestValidationMiddleware()
	err := m.ValidateStruct(query{Building: "bad/name"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "validation")
}

func TestContentTypeValidator(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		contentType    string
		expectedStatus int
	}{
		{
			name:           "get skips validation",
			method:         http.MethodGet,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "json content type allowed",
			method:         http.MethodPost,
			contentType:    "application/json",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "json with charset allowed",
			method:         http.MethodPost,
			contentType:    "application/json; charset=utf-8",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing content type rejected",
			method:         http.MethodPost,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unsupported content type rejected",
			method:         http.MethodPost,
			contentType:    "text/plain",
			expectedStatus: http.StatusUnsupportedMediaType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(tt.method, "/api/test", strings.NewReader("{}"))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rec := httptest.NewRecorder()

			ContentTypeValidator("application/json")(testHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
		})
	}
}

func TestQueryParamValidator_ValidateInt(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	errorHandler := apierrors.NewErrorHandler(logger, false)
	v := NewQueryParamValidator(logger, errorHandler)

	tests := []struct {
		name          string
		query         string
		expectedValue int
		expectedOK    bool
	}{
		{name: "valid value", query: "page=3", expectedValue: 3, expectedOK: true},
		{name: "missing value uses default", query: "", expectedValue: 1, expectedOK: true},
		{name: "non-numeric rejected", query: "page=abc", expectedOK: false},
		{name: "out of range rejected", query: "page=500", expectedOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/readings?"+tt.query, nil)
			rec := httptest.NewRecorder()

			value, ok := v.ValidateInt(rec, req, "page", 1, 100, 1)

			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.Equal(t, tt.expectedValue, value)
			} else {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
			}
		})
	}
}

func TestQueryParamValidator_ValidateEnum(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	errorHandler := apierrors.NewErrorHandler(logger, false)
	v := NewQueryParamValidator(logger, errorHandler)

	allowed := []string{"daily", "weekly"}

	tests := []struct {
		name          string
		query         string
		expectedValue string
		expectedOK    bool
	}{
		{name: "valid value", query: "period=weekly", expectedValue: "weekly", expectedOK: true},
		{name: "missing value uses default", query: "", expectedValue: "daily", expectedOK: true},
		{name: "unknown value rejected", query: "period=hourly", expectedOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/api/totals?"+tt.query, nil)
			rec := httptest.NewRecorder()

			value, ok := v.ValidateEnum(rec, req, "period", allowed, "daily")

			assert.Equal(t, tt.expectedOK, ok)
			if tt.expectedOK {
				assert.Equal(t, tt.expectedValue, value)
			} else {
				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Contains(t, rec.Body.String(), "must be one of")
			}
		})
	}
}
