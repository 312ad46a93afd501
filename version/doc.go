// Package version reports build information for restkit binaries.
//
// Version, commit, branch and build time are set at compile time:
//
//	go build -ldflags "-X github.com/kbukum/restkit/version.Version=v1.0.0 \
//	  -X github.com/kbukum/restkit/version.BuildTime=2026-01-02T15:04:05Z" ./cmd/restctl
package version
