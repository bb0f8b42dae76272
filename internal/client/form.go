package client

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"strconv"

	"github.com/vantagepoint/vantage-admin/internal/domain"
)

// Form is a multipart/form-data request body. It keeps its parts so the body
// can be encoded again when a request is retried after a token refresh.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	name   string
	upload *domain.Upload
}

// NewForm creates an empty form.
func NewForm() *Form {
	return &Form{}
}

// Set appends a text field.
func (f *Form) Set(name, value string) *Form {
	f.fields = append(f.fields, formField{name, value})
	return f
}

// SetInt appends an integer field.
func (f *Form) SetInt(name string, value int) *Form {
	return f.Set(name, strconv.Itoa(value))
}

// SetInts appends one "name[]" field per value.
func (f *Form) SetInts(name string, values []int) *Form {
	for _, v := range values {
		f.Set(name+"[]", strconv.Itoa(v))
	}
	return f
}

// File attaches an upload. A nil upload is skipped.
func (f *Form) File(name string, upload *domain.Upload) *Form {
	if upload != nil {
		f.files = append(f.files, formFile{name, upload})
	}
	return f
}

// Value returns the first value of a text field.
func (f *Form) Value(name string) string {
	for _, fld := range f.fields {
		if fld.name == name {
			return fld.value
		}
	}
	return ""
}

// encode writes the form and returns the body with its content type.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", fld.name, err)
		}
	}

	for _, file := range f.files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", multipart.FileContentDisposition(file.name, file.upload.Filename))
		contentType := file.upload.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)

		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", file.name, err)
		}
		if _, err := part.Write(file.upload.Data); err != nil {
			return nil, "", fmt.Errorf("write part %s: %w", file.name, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart writer: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
