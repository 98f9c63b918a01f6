package version

import (
	"fmt"
	"runtime/debug"
)

// Set the version at build time with:
// go build -ldflags "-X github.com/nuchord/nuchord/version.Version=$(git describe --dirty)"

var Version string

// Hash is the short VCS revision the binary was built from, with a "-dirty"
// suffix for modified trees, or "" when unknown.
var Hash = func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	revision, modified := "", false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value[:min(len(setting.Value), 7)]
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision != "" && modified {
		return revision + "-dirty"
	}
	return revision
}()

var VersionOrHash = func() string {
	if Version != "" {
		return Version
	}
	return Hash
}()

// String describes the build for -v flags, e.g. "nuchord v0.2.0".
func String(program string) string {
	if VersionOrHash == "" {
		return program + " (unknown version)"
	}
	return fmt.Sprintf("%s %s", program, VersionOrHash)
}
