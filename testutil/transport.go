package testutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/restkit/httpclient"
)

// Reply is a scripted response. A non-nil Err is returned as is; a Status
// of 400 or above is returned together with a classified *httpclient.Error.
type Reply struct {
	Status  int
	Headers map[string]string
	// Body is sent as is when []byte or string, JSON encoded otherwise.
	Body any
	Err  error
}

// MockTransport records every request and answers from a queue of replies.
// When the queue is empty it answers 200 with an empty body.
// Safe for concurrent use.
type MockTransport struct {
	name string

	mu       sync.Mutex
	requests []httpclient.Request
	replies  []Reply
}

// NewMockTransport creates a MockTransport named "mock".
func NewMockTransport() *MockTransport {
	return &MockTransport{name: "mock"}
}

// Reply queues replies, answered in order.
func (m *MockTransport) Reply(replies ...Reply) *MockTransport {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.replies = append(m.replies, replies...)
	return m
}

// ReplyJSON queues a reply with a JSON body.
func (m *MockTransport) ReplyJSON(status int, body any) *MockTransport {
	return m.Reply(Reply{Status: status, Body: body, Headers: map[string]string{"Content-Type": "application/json"}})
}

// ReplyError queues a transport failure.
func (m *MockTransport) ReplyError(err error) *MockTransport {
	return m.Reply(Reply{Err: err})
}

// Name implements httpclient.Transport.
func (m *MockTransport) Name() string { return m.name }

// Execute implements httpclient.Transport. A done context fails without
// consuming a reply.
func (m *MockTransport) Execute(ctx context.Context, req httpclient.Request) (*httpclient.Response, error) {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, httpclient.NewCanceledError(err)
		}
		return nil, httpclient.NewTimeoutError(err)
	}

	m.mu.Lock()
	m.requests = append(m.requests, req)
	reply := Reply{Status: 200}
	if len(m.replies) > 0 {
		reply = m.replies[0]
		m.replies = m.replies[1:]
	}
	m.mu.Unlock()

	if reply.Err != nil {
		return nil, reply.Err
	}

	body, err := encode(reply.Body)
	if err != nil {
		return nil, fmt.Errorf("testutil: encode reply: %w", err)
	}
	status := reply.Status
	if status == 0 {
		status = 200
	}
	resp := &httpclient.Response{StatusCode: status, Headers: reply.Headers, Body: body}
	if status >= 400 {
		return resp, httpclient.ClassifyStatusCode(status, body)
	}
	return resp, nil
}

func encode(body any) ([]byte, error) {
	switch b := body.(type) {
	case nil:
		return nil, nil
	case []byte:
		return b, nil
	case string:
		return []byte(b), nil
	default:
		return json.Marshal(b)
	}
}

// Requests returns a copy of the recorded requests.
func (m *MockTransport) Requests() []httpclient.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]httpclient.Request(nil), m.requests...)
}

// Pending returns the number of queued replies not yet consumed.
func (m *MockTransport) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.replies)
}

// ExpectOne fails the test unless exactly one recorded request matches
// method (case-insensitive) and url, and returns it.
func (m *MockTransport) ExpectOne(t testing.TB, method, url string) httpclient.Request {
	t.Helper()
	var matched []httpclient.Request
	for _, req := range m.Requests() {
		if strings.EqualFold(req.Method, method) && req.URL == url {
			matched = append(matched, req)
		}
	}
	if len(matched) != 1 {
		t.Fatalf("expected one %s %s, got %d (recorded: %s)", method, url, len(matched), m.describe())
		return httpclient.Request{}
	}
	return matched[0]
}

// ExpectNone fails the test if any request was recorded.
func (m *MockTransport) ExpectNone(t testing.TB) {
	t.Helper()
	if n := len(m.Requests()); n > 0 {
		t.Fatalf("expected no requests, got %d (recorded: %s)", n, m.describe())
	}
}

func (m *MockTransport) describe() string {
	reqs := m.Requests()
	parts := make([]string, 0, len(reqs))
	for _, r := range reqs {
		parts = append(parts, r.Method+" "+r.URL)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Start implements TestComponent.
func (m *MockTransport) Start(context.Context) error { return nil }

// Stop implements TestComponent.
func (m *MockTransport) Stop(context.Context) error { return nil }

// Reset clears recorded requests and queued replies.
func (m *MockTransport) Reset(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests, m.replies = nil, nil
	return nil
}

type transportSnapshot struct {
	requests []httpclient.Request
	replies  []Reply
}

// Snapshot captures recorded requests and queued replies.
func (m *MockTransport) Snapshot(context.Context) (any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return transportSnapshot{
		requests: append([]httpclient.Request(nil), m.requests...),
		replies:  append([]Reply(nil), m.replies...),
	}, nil
}

// Restore returns to a state captured by Snapshot.
func (m *MockTransport) Restore(_ context.Context, snapshot any) error {
	s, ok := snapshot.(transportSnapshot)
	if !ok {
		return fmt.Errorf("testutil: invalid snapshot type %T", snapshot)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = append([]httpclient.Request(nil), s.requests...)
	m.replies = append([]Reply(nil), s.replies...)
	return nil
}
