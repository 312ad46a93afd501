package httpclient

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Form is a multipart/form-data request body. Pass a *Form as Request.Body.
type Form struct {
	Fields url.Values
	Files  []FormFile
}

// FormFile is one file part. Exactly one of Data, Reader or Path is used,
// in that order.
type FormFile struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
	Reader      io.Reader
	Path        string
}

// AddFile appends a file part read from path at encoding time.
func (f *Form) AddFile(field, path string) *Form {
	f.Files = append(f.Files, FormFile{FieldName: field, FileName: filepath.Base(path), Path: path})
	return f
}

// replayable reports whether the form can be encoded more than once.
// Files given as a Reader are consumed by the first encoding.
func (f *Form) replayable() bool {
	if f == nil {
		return true
	}
	for _, file := range f.Files {
		if file.Data == nil && file.Reader != nil {
			return false
		}
	}
	return true
}

// encode writes the form and returns the body and its Content-Type.
// Fields are written in key order.
func (f *Form) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		for _, v := range f.Fields[k] {
			if err := w.WriteField(k, v); err != nil {
				return nil, "", err
			}
		}
	}

	for _, file := range f.Files {
		if err := writeFilePart(w, file); err != nil {
			return nil, "", fmt.Errorf("form file %q: %w", file.FieldName, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func writeFilePart(w *multipart.Writer, file FormFile) error {
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		`form-data; name="`+escapeQuotes(file.FieldName)+`"; filename="`+escapeQuotes(file.FileName)+`"`)
	header.Set("Content-Type", contentType)

	part, err := w.CreatePart(header)
	if err != nil {
		return err
	}

	switch {
	case file.Data != nil:
		_, err = part.Write(file.Data)
	case file.Reader != nil:
		_, err = io.Copy(part, file.Reader)
	case file.Path != "":
		var fh *os.File
		if fh, err = os.Open(file.Path); err == nil {
			_, err = io.Copy(part, fh)
			_ = fh.Close()
		}
	}
	return err
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
