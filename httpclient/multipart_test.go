package httpclient

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFormUpload(t *testing.T) {
	type part struct {
		name, filename, contentType, body string
	}
	var (
		fields url.Values
		parts  []part
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data; boundary=") {
			t.Errorf("unexpected content type %q", r.Header.Get("Content-Type"))
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse: %v", err)
			return
		}
		fields = r.MultipartForm.Value
		for name, headers := range r.MultipartForm.File {
			for _, fh := range headers {
				f, _ := fh.Open()
				data, _ := io.ReadAll(f)
				_ = f.Close()
				parts = append(parts, part{name, fh.Filename, fh.Header.Get("Content-Type"), string(data)})
			}
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("from disk"), 0o600); err != nil {
		t.Fatal(err)
	}

	form := &Form{Fields: url.Values{"title": {"report"}, "tag": {"a", "b"}}}
	form.AddFile("attachment", path)
	form.Files = append(form.Files,
		FormFile{FieldName: "raw", FileName: `we"ird.bin`, ContentType: "application/pdf", Data: []byte("pdf")},
		FormFile{FieldName: "stream", FileName: "s.txt", Reader: bytes.NewBufferString("streamed")},
	)

	a, err := New(Config{BaseURL: server.URL})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := a.Execute(context.Background(), Request{Method: "POST", URL: "/upload", Body: form})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("expected 201, got %d", resp.StatusCode)
	}

	if fields.Get("title") != "report" || len(fields["tag"]) != 2 {
		t.Errorf("unexpected fields: %v", fields)
	}
	got := map[string]part{}
	for _, p := range parts {
		got[p.name] = p
	}
	if p := got["attachment"]; p.filename != "notes.txt" || p.body != "from disk" || p.contentType != "application/octet-stream" {
		t.Errorf("unexpected attachment part: %+v", p)
	}
	if p := got["raw"]; p.filename != `we"ird.bin` || p.contentType != "application/pdf" || p.body != "pdf" {
		t.Errorf("unexpected raw part: %+v", p)
	}
	if p := got["stream"]; p.body != "streamed" {
		t.Errorf("unexpected stream part: %+v", p)
	}
}

func TestFormMissingFile(t *testing.T) {
	form := (&Form{}).AddFile("f", filepath.Join(t.TempDir(), "absent"))
	if _, _, err := form.encode(); err == nil {
		t.Error("expected error for missing file")
	}
}
