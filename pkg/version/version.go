// Package version exposes formrelay build metadata injected through -ldflags:
//
//	go build -ldflags "-X github.com/dafonte/formrelay/pkg/version.Version=v1.0.0 \
//	  -X github.com/dafonte/formrelay/pkg/version.GitCommit=$(git rev-parse HEAD)"
package version

import (
	"fmt"
	"runtime"
	"time"
)

const shortCommitLen = 7

var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// BuildInfo is served on /version and printed by -version.
type BuildInfo struct {
	Version   string    `json:"version"`
	GitCommit string    `json:"gitCommit"`
	BuildDate string    `json:"buildDate"`
	BuildTime time.Time `json:"buildTime,omitempty"`
	Runtime   string    `json:"runtime"`
}

func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildDate: BuildDate,
		Runtime:   fmt.Sprintf("%s %s/%s", runtime.Version(), runtime.GOOS, runtime.GOARCH),
	}
	if t, err := time.Parse(time.RFC3339, BuildDate); err == nil {
		info.BuildTime = t.UTC()
	}
	return info
}

// String renders the one-line banner shared by both binaries.
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s (commit %s, built %s, %s)", b.Version, ShortCommit(b.GitCommit), b.BuildDate, b.Runtime)
}

// ShortCommit abbreviates a full commit hash; other values pass through.
func ShortCommit(commit string) string {
	if len(commit) > shortCommitLen && commit != "unknown" {
		return commit[:shortCommitLen]
	}
	return commit
}

// UserAgent is sent with outbound API requests.
func UserAgent() string {
	return "formrelay/" + Version
}
