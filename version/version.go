// Package version reports build information injected with -ldflags, e.g.
//
//	go build -ldflags "-X github.com/ozbe/dwift/version.gitVersion=v0.3.0 -X github.com/ozbe/dwift/version.gitCommit=$(git rev-parse HEAD)"
package version

import (
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/gosuri/uitable"
)

var (
	// gitVersion is vMAJOR.MINOR.PATCH[-PRERELEASE][+BUILD].
	gitVersion = "v0.0.0-dev"
	// gitCommit is the output of $(git rev-parse HEAD).
	gitCommit = ""
	// gitTreeState is "clean" or "dirty".
	gitTreeState = ""
	// buildDate is $(date -u +'%Y-%m-%dT%H:%M:%SZ').
	buildDate = "1970-01-01T00:00:00Z"
)

type Info struct {
	GitVersion   string `json:"gitVersion"`
	GitCommit    string `json:"gitCommit,omitempty"`
	GitTreeState string `json:"gitTreeState,omitempty"`
	BuildDate    string `json:"buildDate"`
	GoVersion    string `json:"goVersion"`
	Platform     string `json:"platform"`
}

func (info Info) String() string {
	if info.GitTreeState == "dirty" {
		return info.GitVersion + "-dirty"
	}
	return info.GitVersion
}

// UserAgent is sent with every API call, e.g. "dwift/v0.3.0 (linux/amd64)".
func (info Info) UserAgent() string {
	return fmt.Sprintf("dwift/%s (%s)", info.String(), info.Platform)
}

func (info Info) ToJSON() (string, error) {
	s, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal version info: %w", err)
	}
	return string(s), nil
}

// Text renders info as an aligned two column table.
func (info Info) Text() string {
	table := uitable.New()
	table.RightAlign(0)
	table.MaxColWidth = 80
	table.Separator = " "
	table.AddRow("gitVersion:", info.GitVersion)
	if info.GitCommit != "" {
		table.AddRow("gitCommit:", info.GitCommit)
	}
	if info.GitTreeState != "" {
		table.AddRow("gitTreeState:", info.GitTreeState)
	}
	table.AddRow("buildDate:", info.BuildDate)
	table.AddRow("goVersion:", info.GoVersion)
	table.AddRow("platform:", info.Platform)
	return table.String()
}

func Get() Info {
	return Info{
		GitVersion:   gitVersion,
		GitCommit:    gitCommit,
		GitTreeState: gitTreeState,
		BuildDate:    buildDate,
		GoVersion:    runtime.Version(),
		Platform:     runtime.GOOS + "/" + runtime.GOARCH,
	}
}
