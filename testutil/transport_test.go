package testutil_test

import (
	"context"
	"errors"
	"testing"

	"github.com/kbukum/restkit/httpclient"
	"github.com/kbukum/restkit/testutil"
)

func TestMockTransport_Replies(t *testing.T) {
	mock := testutil.NewMockTransport().
		ReplyJSON(200, map[string]int{"n": 1}).
		Reply(testutil.Reply{Status: 404, Body: "missing"}).
		ReplyError(errors.New("boom"))

	ctx := context.Background()
	resp, err := mock.Execute(ctx, httpclient.Request{Method: "GET", URL: "a"})
	if err != nil || string(resp.Body) != `{"n":1}` {
		t.Errorf("expected JSON reply, got %v %v", resp, err)
	}

	resp, err = mock.Execute(ctx, httpclient.Request{Method: "GET", URL: "b"})
	if !httpclient.IsNotFound(err) || resp == nil || string(resp.Body) != "missing" {
		t.Errorf("expected 404 with body, got %v %v", resp, err)
	}

	if _, err = mock.Execute(ctx, httpclient.Request{Method: "GET", URL: "c"}); err == nil || err.Error() != "boom" {
		t.Errorf("expected scripted error, got %v", err)
	}

	resp, err = mock.Execute(ctx, httpclient.Request{Method: "GET", URL: "d"})
	if err != nil || resp.StatusCode != 200 || resp.Body != nil {
		t.Errorf("expected default empty 200, got %v %v", resp, err)
	}
	if mock.Pending() != 0 || len(mock.Requests()) != 4 {
		t.Errorf("expected all replies consumed, pending=%d requests=%d", mock.Pending(), len(mock.Requests()))
	}
}

func TestMockTransport_CanceledContext(t *testing.T) {
	mock := testutil.NewMockTransport().ReplyJSON(200, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := mock.Execute(ctx, httpclient.Request{}); !httpclient.IsCanceled(err) {
		t.Errorf("expected canceled error, got %v", err)
	}
	if mock.Pending() != 1 {
		t.Error("canceled call must not consume a reply")
	}
	mock.ExpectNone(t)
}

func TestMockTransport_ExpectOne(t *testing.T) {
	mock := testutil.NewMockTransport()
	_, _ = mock.Execute(context.Background(), httpclient.Request{Method: "PATCH", URL: "api/items/5", Body: "x"})
	_, _ = mock.Execute(context.Background(), httpclient.Request{Method: "GET", URL: "api/items"})

	req := mock.ExpectOne(t, "patch", "api/items/5")
	if req.Body != "x" {
		t.Errorf("expected recorded body, got %v", req.Body)
	}
}

func TestMockTransport_SnapshotRestore(t *testing.T) {
	mock := testutil.NewMockTransport().ReplyJSON(200, 1).ReplyJSON(200, 2)
	h := testutil.T(t)
	h.Setup(mock)

	snap := h.Snapshot(mock)
	_, _ = mock.Execute(context.Background(), httpclient.Request{URL: "x"})
	if mock.Pending() != 1 {
		t.Fatalf("expected 1 pending, got %d", mock.Pending())
	}

	h.Restore(mock, snap)
	if mock.Pending() != 2 || len(mock.Requests()) != 0 {
		t.Errorf("expected restored state, pending=%d requests=%d", mock.Pending(), len(mock.Requests()))
	}

	h.Reset(mock)
	if mock.Pending() != 0 {
		t.Errorf("expected empty queue after reset, got %d", mock.Pending())
	}
	if err := mock.Restore(context.Background(), "bogus"); err == nil {
		t.Error("expected error for invalid snapshot")
	}
}
