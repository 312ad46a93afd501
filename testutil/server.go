package testutil

import (
	"context"
	"fmt"
	"maps"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Document is one stored entity.
type Document = map[string]any

// RecordedRequest is a request seen by ResourceServer.
type RecordedRequest struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Cookie string
}

// ResourceServer is an in-memory REST API for one resource collection:
//
//	GET    /{resource}          list, in insertion order
//	GET    /{resource}/:id      one document, 404 when absent
//	POST   /{resource}          create, 201 with the stored document
//	POST   /{resource}/bulk     create from an array, 201 with the stored documents
//	PUT    /{resource}/:id      replace
//	PATCH  /{resource}/:id      merge top-level fields
//	DELETE /{resource}/:id      {"succeeded": true}, or 404 with false
//
// Documents without an "id" get the next integer. A POST to /login sets a
// session cookie; while it is set, responses carry X-Session: active.
type ResourceServer struct {
	resource string

	mu       sync.Mutex
	docs     map[string]Document
	order    []string
	nextID   int
	requests []RecordedRequest
	ts       *httptest.Server
}

// NewResourceServer creates a server for the given collection name.
// Call Start, or use T(t).Setup, before sending requests.
func NewResourceServer(resource string) *ResourceServer {
	s := &ResourceServer{resource: resource}
	s.resetLocked()
	return s
}

// Name implements TestComponent.
func (s *ResourceServer) Name() string { return "resource-server:" + s.resource }

// Start serves the API on a local port.
func (s *ResourceServer) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts != nil {
		return fmt.Errorf("testutil: %s already started", s.Name())
	}
	s.ts = httptest.NewServer(s.engine())
	return nil
}

// Stop shuts the server down.
func (s *ResourceServer) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts != nil {
		s.ts.Close()
		s.ts = nil
	}
	return nil
}

// BaseURL returns the server root, e.g. "http://127.0.0.1:PORT".
// Empty until started.
func (s *ResourceServer) BaseURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts == nil {
		return ""
	}
	return s.ts.URL
}

// Seed stores documents as if created by POST.
func (s *ResourceServer) Seed(docs ...Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range docs {
		s.storeLocked(maps.Clone(d))
	}
}

// Documents returns copies of the stored documents in insertion order.
func (s *ResourceServer) Documents() []Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listLocked()
}

// Requests returns the requests received so far.
func (s *ResourceServer) Requests() []RecordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.requests)
}

// Reset removes all documents and recorded requests.
func (s *ResourceServer) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return nil
}

type serverSnapshot struct {
	docs   map[string]Document
	order  []string
	nextID int
}

// Snapshot captures the stored documents.
func (s *ResourceServer) Snapshot(_ context.Context) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make(map[string]Document, len(s.docs))
	for id, d := range s.docs {
		docs[id] = maps.Clone(d)
	}
	return serverSnapshot{docs: docs, order: slices.Clone(s.order), nextID: s.nextID}, nil
}

// Restore returns the stored documents to a captured state.
func (s *ResourceServer) Restore(_ context.Context, snapshot any) error {
	snap, ok := snapshot.(serverSnapshot)
	if !ok {
		return fmt.Errorf("testutil: invalid snapshot type %T", snapshot)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs = make(map[string]Document, len(snap.docs))
	for id, d := range snap.docs {
		s.docs[id] = maps.Clone(d)
	}
	s.order = slices.Clone(snap.order)
	s.nextID = snap.nextID
	return nil
}

func (s *ResourceServer) resetLocked() {
	s.docs = map[string]Document{}
	s.order = nil
	s.nextID = 1
	s.requests = nil
}

func (s *ResourceServer) engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), s.record)

	engine.POST("/login", func(c *gin.Context) {
		c.SetCookie("session", "active", 3600, "/", "", false, true)
		c.Status(http.StatusNoContent)
	})

	g := engine.Group("/" + s.resource)
	g.GET("", s.list)
	g.GET("/:id", s.get)
	g.POST("", s.create)
	g.POST("/bulk", s.createBulk)
	g.PUT("/:id", s.replace)
	g.PATCH("/:id", s.patch)
	g.DELETE("/:id", s.remove)
	return engine
}

func (s *ResourceServer) record(c *gin.Context) {
	cookie, _ := c.Cookie("session")
	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method: c.Request.Method,
		Path:   c.Request.URL.Path,
		Query:  c.Request.URL.Query(),
		Header: c.Request.Header.Clone(),
		Cookie: cookie,
	})
	s.mu.Unlock()
	if cookie != "" {
		c.Header("X-Session", cookie)
	}
	c.Next()
}

func (s *ResourceServer) list(c *gin.Context) {
	s.mu.Lock()
	docs := s.listLocked()
	s.mu.Unlock()
	c.JSON(http.StatusOK, docs)
}

func (s *ResourceServer) get(c *gin.Context) {
	s.mu.Lock()
	doc, ok := s.docs[c.Param("id")]
	if ok {
		doc = maps.Clone(doc)
	}
	s.mu.Unlock()
	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *ResourceServer) create(c *gin.Context) {
	var doc Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	stored := s.storeLocked(doc)
	s.mu.Unlock()
	c.JSON(http.StatusCreated, stored)
}

func (s *ResourceServer) createBulk(c *gin.Context) {
	var docs []Document
	if err := c.ShouldBindJSON(&docs); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	s.mu.Lock()
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		out = append(out, s.storeLocked(d))
	}
	s.mu.Unlock()
	c.JSON(http.StatusCreated, out)
}

func (s *ResourceServer) replace(c *gin.Context) {
	s.update(c, func(_ Document, in Document) Document { return in })
}

func (s *ResourceServer) patch(c *gin.Context) {
	s.update(c, func(old Document, in Document) Document {
		merged := maps.Clone(old)
		maps.Copy(merged, in)
		return merged
	})
}

func (s *ResourceServer) update(c *gin.Context, apply func(old, in Document) Document) {
	var in Document
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	id := c.Param("id")

	s.mu.Lock()
	old, ok := s.docs[id]
	var doc Document
	if ok {
		doc = apply(old, in)
		doc["id"] = old["id"]
		s.docs[id] = doc
		doc = maps.Clone(doc)
	}
	s.mu.Unlock()

	if !ok {
		notFound(c)
		return
	}
	c.JSON(http.StatusOK, doc)
}

func (s *ResourceServer) remove(c *gin.Context) {
	id := c.Param("id")
	s.mu.Lock()
	_, ok := s.docs[id]
	if ok {
		delete(s.docs, id)
		s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	}
	s.mu.Unlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"succeeded": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"succeeded": true})
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found", "id": c.Param("id")})
}

// storeLocked saves doc, assigning an id when missing, and returns a copy.
func (s *ResourceServer) storeLocked(doc Document) Document {
	if doc == nil {
		doc = Document{}
	}
	raw, ok := doc["id"]
	if !ok || raw == nil {
		raw = s.nextID
		doc["id"] = raw
	}
	id := idKey(raw)
	if n, err := strconv.Atoi(id); err == nil && n >= s.nextID {
		s.nextID = n + 1
	}
	if _, exists := s.docs[id]; !exists {
		s.order = append(s.order, id)
	}
	s.docs[id] = doc
	return maps.Clone(doc)
}

func (s *ResourceServer) listLocked() []Document {
	out := make([]Document, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, maps.Clone(s.docs[id]))
	}
	return out
}

// idKey formats ids so 5 and 5.0 (as decoded from JSON) share a key.
func idKey(v any) string {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return strconv.FormatInt(int64(f), 10)
	}
	return fmt.Sprint(v)
}
