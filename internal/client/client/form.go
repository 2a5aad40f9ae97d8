package client

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
)

// ErrNoFileContent is returned for a file part added with a nil reader.
var ErrNoFileContent = errors.New("file part has no content")

// Form is a multipart/form-data body for UploadFile.
type Form struct {
	fields []formField
	files  []formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, fileName string
	r               io.Reader
}

func NewForm() *Form {
	return &Form{}
}

func (f *Form) AddField(name, value string) *Form {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile adds a file part. r is read once, when the form is sent.
func (f *Form) AddFile(field, fileName string, r io.Reader) *Form {
	f.files = append(f.files, formFile{field: field, fileName: fileName, r: r})
	return f
}

// encode returns the body and its content type, boundary included.
func (f *Form) encode() (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, fld := range f.fields {
		if err := w.WriteField(fld.name, fld.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", fld.name, err)
		}
	}
	for _, file := range f.files {
		if file.r == nil {
			return nil, "", fmt.Errorf("%w: %s", ErrNoFileContent, file.field)
		}
		part, err := w.CreateFormFile(file.field, file.fileName)
		if err != nil {
			return nil, "", fmt.Errorf("create part %s: %w", file.field, err)
		}
		if _, err := io.Copy(part, file.r); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", file.fileName, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close multipart: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
