package response

import (
	"encoding/json/v2"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vantagepoint/vantage-admin/internal/store"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestJSON_WritesBareBody(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, []map[string]int{{"id": 1}, {"id": 2}}, testLogger())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json; charset=utf-8", w.Header().Get("Content-Type"))

	var result []map[string]int
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, []map[string]int{{"id": 1}, {"id": 2}}, result)
}

func TestJSON_NilLogger(t *testing.T) {
	w := httptest.NewRecorder()

	JSON(w, http.StatusOK, map[string]string{"name": "test"}, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"name":"test"}`, w.Body.String())
}

func TestCreatedAndNoContent(t *testing.T) {
	w := httptest.NewRecorder()
	Created(w, map[string]int{"id": 7}, testLogger())
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"id":7}`, w.Body.String())

	w = httptest.NewRecorder()
	NoContent(w)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestErrorHelpers(t *testing.T) {
	tests := []struct {
		name   string
		write  func(w http.ResponseWriter)
		status int
	}{
		{"bad request", func(w http.ResponseWriter) { BadRequest(w, "boom", nil) }, http.StatusBadRequest},
		{"unauthorized", func(w http.ResponseWriter) { Unauthorized(w, "boom", nil) }, http.StatusUnauthorized},
		{"not found", func(w http.ResponseWriter) { NotFound(w, "boom", nil) }, http.StatusNotFound},
		{"too many", func(w http.ResponseWriter) { TooManyRequests(w, "boom", nil) }, http.StatusTooManyRequests},
		{"internal", func(w http.ResponseWriter) { InternalError(w, "boom", nil) }, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)

			assert.Equal(t, tt.status, w.Code)
			assert.JSONEq(t, `{"message":"boom"}`, w.Body.String())
		})
	}
}

func TestValidationFailed(t *testing.T) {
	w := httptest.NewRecorder()

	ValidationFailed(w, []FieldError{{Field: "code", Message: "taken"}}, testLogger())

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.JSONEq(t, `[{"field":"code","message":"taken"}]`, w.Body.String())
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"not found", store.ErrNotFound, http.StatusNotFound, "resource not found"},
		{"wrapped not found", store.ErrNotFound.WithCause(errors.New("post 9")), http.StatusNotFound, "resource not found"},
		{"exists", store.ErrAlreadyExists, http.StatusConflict, "resource already exists"},
		{"invalid", store.ErrInvalidInput, http.StatusBadRequest, "invalid input"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			HandleError(w, tt.err, testLogger())

			assert.Equal(t, tt.status, w.Code)
			var body Message
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.message, body.Message)
		})
	}
}
