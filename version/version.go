package version

import (
	"fmt"
	"runtime/debug"
)

// Set at build time using -ldflags.
var (
	Version   = "dev"
	GitCommit = ""
	BuildTime = ""
)

// Info describes the running build.
type Info struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildTime string `json:"build_time"`
	GoVersion string `json:"go_version"`
	Dirty     bool   `json:"dirty"`
}

// Get returns version information, falling back to VCS settings recorded
// by the Go toolchain for values not set through -ldflags.
func Get() Info {
	info := Info{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = s.Value
				}
			case "vcs.time":
				if info.BuildTime == "" {
					info.BuildTime = s.Value
				}
			case "vcs.modified":
				info.Dirty = s.Value == "true"
			}
		}
	}
	if len(info.GitCommit) > 7 {
		info.GitCommit = info.GitCommit[:7]
	}
	return info
}

// Short returns "version", "version-commit", or "version-commit-dirty".
func (i Info) Short() string {
	if i.GitCommit == "" {
		return i.Version
	}
	if i.Dirty {
		return fmt.Sprintf("%s-%s-dirty", i.Version, i.GitCommit)
	}
	return fmt.Sprintf("%s-%s", i.Version, i.GitCommit)
}

// String returns the short version with the build time, if known.
func (i Info) String() string {
	if i.BuildTime == "" {
		return i.Short()
	}
	return fmt.Sprintf("%s (built %s)", i.Short(), i.BuildTime)
}

// UserAgent returns a User-Agent product token such as "apicall/1.2.0".
func UserAgent(product string) string {
	return product + "/" + Version
}
