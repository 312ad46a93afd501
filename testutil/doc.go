// Package testutil provides test doubles for code built on the REST facade.
//
// MockTransport is an httpclient.Transport that records requests and
// replays scripted responses, for unit tests that never touch the network:
//
//	mock := testutil.NewMockTransport().ReplyJSON(200, []Item{{ID: 1}})
//	svc, _ := rest.New(rest.Config{BaseURL: "api", ResourceName: "items"}, mock)
//	items, _ := rest.List[[]Item](ctx, svc, nil)
//	req := mock.ExpectOne(t, "GET", "api/items")
//
// ResourceServer is an in-memory CRUD API served over HTTP, for end-to-end
// tests through the real adapter:
//
//	srv := testutil.NewResourceServer("items")
//	testutil.T(t).Setup(srv)
//	srv.Seed(map[string]any{"id": 1, "name": "first"})
//
// Both implement TestComponent, so they can be started, reset, snapshotted
// and restored the same way.
package testutil
