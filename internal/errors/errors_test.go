package errors_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/vantagepoint/vantage-admin/internal/errors"
)

// fakeResponseError stands in for the API client's structured exception.
type fakeResponseError struct {
	status int
	data   any
}

func (e *fakeResponseError) Error() string     { return fmt.Sprintf("HTTP %d", e.status) }
func (e *fakeResponseError) StatusCode() int   { return e.status }
func (e *fakeResponseError) ResponseData() any { return e.data }

func TestNormalizeResponse(t *testing.T) {
	tests := []struct {
		name   string
		status int
		data   any
		want   *domainerrors.DomainError
	}{
		{
			name:   "422 field list",
			status: http.StatusUnprocessableEntity,
			data: []any{
				map[string]any{"field": "code", "message": "Код уже занят"},
				map[string]any{"field": "name", "message": "Необходимо заполнить «Название»"},
			},
			want: domainerrors.Validation(domainerrors.FieldErrors{
				"code": "Код уже занят",
				"name": "Необходимо заполнить «Название»",
			}),
		},
		{
			name:   "entries without field or message are dropped",
			status: http.StatusUnprocessableEntity,
			data: []any{
				map[string]any{"field": "", "message": "orphan"},
				map[string]any{"field": "title"},
				map[string]any{"message": "no field"},
				"not an object",
				map[string]any{"field": "text", "message": "Слишком коротко"},
			},
			want: domainerrors.Validation(domainerrors.FieldErrors{"text": "Слишком коротко"}),
		},
		{
			name:   "list with nothing usable is still validation",
			status: http.StatusUnprocessableEntity,
			data:   []any{map[string]any{"field": "x"}},
			want:   domainerrors.Validation(domainerrors.FieldErrors{}),
		},
		{
			name:   "list wins regardless of status",
			status: http.StatusBadRequest,
			data:   []any{},
			want:   domainerrors.Validation(nil),
		},
		{
			name:   "400 with message",
			status: http.StatusBadRequest,
			data:   map[string]any{"message": "Неверный запрос", "code": 0},
			want:   domainerrors.Form("Неверный запрос"),
		},
		{
			name:   "400 without message",
			status: http.StatusBadRequest,
			data:   map[string]any{},
			want:   domainerrors.Unknown(),
		},
		{
			name:   "400 with empty message",
			status: http.StatusBadRequest,
			data:   map[string]any{"message": ""},
			want:   domainerrors.Unknown(),
		},
		{
			name:   "400 with non-string message",
			status: http.StatusBadRequest,
			data:   map[string]any{"message": 42.0},
			want:   domainerrors.Unknown(),
		},
		{
			name:   "500 with message",
			status: http.StatusInternalServerError,
			data:   map[string]any{"message": "boom"},
			want:   domainerrors.Unknown(),
		},
		{
			name:   "nil body",
			status: http.StatusBadRequest,
			data:   nil,
			want:   domainerrors.Unknown(),
		},
		{
			name:   "primitive body",
			status: http.StatusBadRequest,
			data:   "oops",
			want:   domainerrors.Unknown(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domainerrors.NormalizeResponse(tt.status, tt.data)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize_NonResponseInputs(t *testing.T) {
	unknown := &domainerrors.DomainError{Kind: domainerrors.KindUnknown, Message: "Unexpected error"}

	assert.Equal(t, unknown, domainerrors.Normalize(nil))
	assert.Equal(t, unknown, domainerrors.Normalize(domainerrors.New("string")))
	assert.Equal(t, unknown, domainerrors.Normalize(fmt.Errorf("dial tcp: %w", domainerrors.New("connection refused"))))
}

func TestNormalize_UnwrapsResponseError(t *testing.T) {
	inner := &fakeResponseError{status: http.StatusBadRequest, data: map[string]any{"message": "Тег уже существует"}}
	err := fmt.Errorf("create tag: %w", inner)

	got := domainerrors.Normalize(err)
	require.Equal(t, domainerrors.KindForm, got.Kind)
	assert.Equal(t, "Тег уже существует", got.Message)
}

func TestNormalize_PassesDomainErrorThrough(t *testing.T) {
	derr := domainerrors.Form("already normalized")
	assert.Same(t, derr, domainerrors.Normalize(fmt.Errorf("wrap: %w", derr)))
}

func TestDomainError_IsMatchesKind(t *testing.T) {
	err := fmt.Errorf("save: %w", domainerrors.Validation(domainerrors.FieldErrors{"name": "required"}))

	assert.ErrorIs(t, err, domainerrors.ErrValidation)
	assert.NotErrorIs(t, err, domainerrors.ErrForm)
	assert.Contains(t, err.Error(), "name: required")
}

func TestFieldErrors_NamesSorted(t *testing.T) {
	f := domainerrors.FieldErrors{"title": "a", "code": "b", "text": "c"}
	assert.Equal(t, []string{"code", "text", "title"}, f.Names())
}
