package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"
)

// Set at build time with -ldflags "-X github.com/kbukum/restkit/version.Version=v1.2.3".
var (
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
)

// Info describes the running binary.
type Info struct {
	Version   string    `json:"version" yaml:"version"`
	GitCommit string    `json:"git_commit,omitempty" yaml:"git_commit,omitempty"`
	GitBranch string    `json:"git_branch,omitempty" yaml:"git_branch,omitempty"`
	GoVersion string    `json:"go_version" yaml:"go_version"`
	BuildDate time.Time `json:"build_date" yaml:"build_date"`
	Dirty     bool      `json:"dirty" yaml:"dirty"`
}

// Get returns the build information, filling gaps from the Go build
// metadata (VCS revision, time and modified flag) when ldflags are absent.
func Get() Info {
	info := Info{Version: Version, GitCommit: GitCommit, GitBranch: GitBranch}
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		info.BuildDate = t
	}

	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		applySettings(&info, bi.Settings)
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

func applySettings(info *Info, settings []debug.BuildSetting) {
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if info.GitCommit == "" {
				info.GitCommit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		case "vcs.time":
			if info.BuildDate.IsZero() {
				if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
					info.BuildDate = t
				}
			}
		}
	}
}

// IsRelease reports whether the binary was built from a tagged, clean tree.
func (i Info) IsRelease() bool {
	return i.Version != "dev" && !i.Dirty && !strings.Contains(i.Version, "dirty")
}

// Short is "version-commit[-dirty]", or just the version without a commit.
func (i Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	s := i.Version + "-" + i.GitCommit
	if i.Dirty {
		s += "-dirty"
	}
	return s
}

// String is the short form plus branch (when not main), Go version and build date.
func (i Info) String() string {
	var b strings.Builder
	b.WriteString("restkit ")
	b.WriteString(i.Short())
	if i.GitBranch != "" && i.GitBranch != "main" && i.GitBranch != "master" {
		fmt.Fprintf(&b, " (%s)", i.GitBranch)
	}
	if i.GoVersion != "" {
		b.WriteString(" " + i.GoVersion)
	}
	if !i.BuildDate.IsZero() {
		b.WriteString(" built " + i.BuildDate.UTC().Format(time.RFC3339))
	}
	return b.String()
}
