package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// VersionInfo is the build version split into its semantic version parts.
type VersionInfo struct {
	Major      uint64 `json:"major"`
	Minor      uint64 `json:"minor"`
	Patch      uint64 `json:"patch"`
	PreRelease string `json:"prerelease,omitempty"`
	Meta       string `json:"meta,omitempty"`
	Version    string `json:"version"`
	Commit     string `json:"commit,omitempty"`
	BuildDate  string `json:"buildDate,omitempty"`
	GoVersion  string `json:"goVersion"`
	Platform   string `json:"platform"`
}

// GetVersionInfo parses the main module version of bi.
// Versions that are not semantic versions are reported as 0.0.0 with the raw version string.
// For Go pseudo versions like v0.0.0-20250101120000-0123456789ab the timestamp and the
// commit are extracted from the prerelease.
func GetVersionInfo(bi *debug.BuildInfo) VersionInfo {
	info := VersionInfo{
		Version:   bi.Main.Version,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}

	v, err := semver.NewVersion(bi.Main.Version)
	if err != nil {
		return info
	}
	info.Version = v.String()
	info.Major, info.Minor, info.Patch = v.Major(), v.Minor(), v.Patch()
	info.Meta = v.Metadata()
	info.PreRelease = v.Prerelease()

	// pseudo versions end in a 14 digit timestamp and a 12 character commit hash
	parts := strings.Split(info.PreRelease, ".")
	last := parts[len(parts)-1]
	if date, commit, ok := strings.Cut(last, "-"); ok && len(date) == 14 && len(commit) == 12 {
		info.BuildDate, info.Commit = date, commit
	}
	return info
}
