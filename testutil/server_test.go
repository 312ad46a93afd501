package testutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"github.com/kbukum/restkit/testutil"
)

func do(t *testing.T, method, url string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req, _ := http.NewRequest(method, url, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, data
}

func TestResourceServer_CRUD(t *testing.T) {
	srv := testutil.NewResourceServer("items")
	testutil.T(t).Setup(srv)
	base := srv.BaseURL() + "/items"

	status, body := do(t, "POST", base, map[string]any{"name": "first"})
	if status != http.StatusCreated || !bytes.Contains(body, []byte(`"id":1`)) {
		t.Fatalf("expected created with id 1, got %d %s", status, body)
	}

	status, body = do(t, "POST", base+"/bulk", []map[string]any{{"name": "second"}, {"id": 10, "name": "tenth"}})
	if status != http.StatusCreated {
		t.Fatalf("expected bulk created, got %d %s", status, body)
	}

	var list []map[string]any
	_, body = do(t, "GET", base, nil)
	if err := json.Unmarshal(body, &list); err != nil || len(list) != 3 {
		t.Fatalf("expected 3 items, got %s", body)
	}
	if list[0]["name"] != "first" || list[2]["id"] != float64(10) {
		t.Errorf("expected insertion order, got %v", list)
	}

	status, body = do(t, "PATCH", base+"/1", map[string]any{"done": true})
	if status != http.StatusOK || !bytes.Contains(body, []byte(`"name":"first"`)) || !bytes.Contains(body, []byte(`"done":true`)) {
		t.Errorf("expected merged document, got %d %s", status, body)
	}

	status, body = do(t, "PUT", base+"/1", map[string]any{"name": "replaced"})
	if status != http.StatusOK || bytes.Contains(body, []byte("done")) {
		t.Errorf("expected replaced document, got %d %s", status, body)
	}

	status, body = do(t, "DELETE", base+"/2", nil)
	if status != http.StatusOK || string(body) != `{"succeeded":true}` {
		t.Errorf("expected delete success, got %d %s", status, body)
	}
	status, _ = do(t, "DELETE", base+"/2", nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", status)
	}
	status, _ = do(t, "GET", base+"/2", nil)
	if status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}

	if _, body = do(t, "POST", base, map[string]any{"name": "next"}); !bytes.Contains(body, []byte(`"id":11`)) {
		t.Errorf("expected ids to continue after 10, got %s", body)
	}
	if got := len(srv.Requests()); got != 9 {
		t.Errorf("expected 9 recorded requests, got %d", got)
	}
}

func TestResourceServer_SnapshotRestore(t *testing.T) {
	srv := testutil.NewResourceServer("items")
	h := testutil.T(t)
	h.Setup(srv)

	srv.Seed(testutil.Document{"id": 1, "name": "a"})
	snap := h.Snapshot(srv)
	srv.Seed(testutil.Document{"name": "b"})
	if len(srv.Documents()) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(srv.Documents()))
	}

	h.Restore(srv, snap)
	docs := srv.Documents()
	if len(docs) != 1 || docs[0]["name"] != "a" {
		t.Errorf("expected restored documents, got %v", docs)
	}

	h.Reset(srv)
	if len(srv.Documents()) != 0 {
		t.Error("expected no documents after reset")
	}
}

func TestResourceServer_Lifecycle(t *testing.T) {
	srv := testutil.NewResourceServer("items")
	if srv.BaseURL() != "" {
		t.Error("expected empty base URL before start")
	}
	cleanup, err := testutil.Setup(context.Background(), srv)
	if err != nil {
		t.Fatal(err)
	}
	if err := srv.Start(context.Background()); err == nil {
		t.Error("expected error on double start")
	}
	if err := cleanup(); err != nil {
		t.Fatal(err)
	}
	if srv.BaseURL() != "" {
		t.Error("expected empty base URL after stop")
	}
}
