// Package version exposes build version information.
package version

import "runtime/debug"

// Populated via ldflags at release build time; falls back to module build
// info for plain `go install` builds.
var (
	GitRelease    = ""
	GitCommit     = ""
	GitCommitDate = ""
	GoInfo        = ""
)

func init() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	if GoInfo == "" {
		GoInfo = info.GoVersion
	}
	if GitRelease == "" && info.Main.Version != "" {
		GitRelease = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if GitCommit == "" {
				GitCommit = setting.Value
			}
		case "vcs.time":
			if GitCommitDate == "" {
				GitCommitDate = setting.Value
			}
		}
	}
}
