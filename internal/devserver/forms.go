package devserver

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/vantagepoint/vantage-admin/internal/domain"
	"github.com/vantagepoint/vantage-admin/internal/http/response"
)

const maxFormMemory = 8 << 20

// Messages in the backend's wording.
const (
	requiredMessage   = "Необходимо заполнить «%s»."
	integerMessage    = "Значение «%s» должно быть целым числом."
	takenMessage      = "Значение «%s» уже занято."
	missingRefMessage = "Значение «%s» неверно."

	malformedFormMessage = "Некорректное тело запроса"
	badIDMessage         = "Некорректный параметр id"
)

// parseForm parses a multipart or url-encoded body.
func parseForm(r *http.Request) error {
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

// fieldErrors collects 422 entries while a form is read.
type fieldErrors []response.FieldError

func (f *fieldErrors) add(field, format, label string) {
	*f = append(*f, response.FieldError{Field: field, Message: fmt.Sprintf(format, label)})
}

func (f *fieldErrors) required(r *http.Request, field, label string) string {
	v := strings.TrimSpace(r.PostFormValue(field))
	if v == "" {
		f.add(field, requiredMessage, label)
	}
	return v
}

// integer reads an optional integer field, defaulting to 0.
func (f *fieldErrors) integer(r *http.Request, field, label string) int {
	v := strings.TrimSpace(r.PostFormValue(field))
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		f.add(field, integerMessage, label)
	}
	return n
}

func (f *fieldErrors) integers(r *http.Request, field, label string) []int {
	var out []int
	for _, v := range r.PostForm[field+"[]"] {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			f.add(field, integerMessage, label)
			return nil
		}
		out = append(out, n)
	}
	return out
}

// failed writes the collected errors as a 422 response when there are any.
func (f fieldErrors) failed(w http.ResponseWriter, logger *slog.Logger) bool {
	if len(f) == 0 {
		return false
	}
	response.ValidationFailed(w, f, logger)
	return true
}

// optional returns the trimmed field value and whether the field was sent.
func optional(r *http.Request, field string) (string, bool) {
	vs, ok := r.PostForm[field]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.TrimSpace(vs[0]), true
}

// readUpload returns the file sent as field, or nil when there is none.
func readUpload(r *http.Request, field string) (*upload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer file.Close()

	body, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", field, err)
	}

	return &upload{
		image:       domain.Image{Name: header.Filename},
		contentType: header.Header.Get("Content-Type"),
		data:        body,
	}, nil
}

// queryID reads the integer id query parameter.
func queryID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.URL.Query().Get("id"))
	return id, err == nil && id > 0
}

// queryIDs reads every id query parameter, accepting both id and id[].
func queryIDs(r *http.Request) ([]int, bool) {
	q := r.URL.Query()
	raw := slices.Concat(q["id"], q["id[]"])
	if len(raw) == 0 {
		return nil, false
	}

	ids := make([]int, 0, len(raw))
	for _, v := range raw {
		id, err := strconv.Atoi(v)
		if err != nil || id <= 0 {
			return nil, false
		}
		ids = append(ids, id)
	}
	return ids, true
}

func chiIntParam(r *http.Request, key string) (int, error) {
	return strconv.Atoi(chi.URLParam(r, key))
}
