// Package version reports how the nesdot binary was built.
package version

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"time"
)

const name = "nesdot"

var (
	// Set at build time via -ldflags "-X nesdot/internal/version.Version=..."
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
	Platform  string
	Arch      string
	Modified  bool
}

// GetBuildInfo merges the linker values with VCS data recorded by the Go
// toolchain. Linker values win.
func GetBuildInfo() BuildInfo {
	bi := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		BuildTime: BuildTime,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
	}

	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			switch setting.Key {
			case "vcs.revision":
				if GitCommit == "unknown" {
					bi.GitCommit = setting.Value
				}
			case "vcs.time":
				if BuildTime == "unknown" {
					bi.BuildTime = setting.Value
				}
			case "vcs.modified":
				bi.Modified = setting.Value == "true"
			}
		}
	}
	return bi
}

func shortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}

// String is the one-line form printed by -version.
func (bi BuildInfo) String() string {
	s := fmt.Sprintf("%s %s", name, bi.Version)
	if bi.GitCommit != "unknown" {
		s += " (" + shortCommit(bi.GitCommit)
		if bi.Modified {
			s += "+dirty"
		}
		s += ")"
	}
	if bi.BuildTime != "unknown" {
		if t, err := time.Parse(time.RFC3339, bi.BuildTime); err == nil {
			s += " built " + t.UTC().Format("2006-01-02 15:04")
		} else {
			s += " built " + bi.BuildTime
		}
	}
	return s + fmt.Sprintf(" %s %s/%s", bi.GoVersion, bi.Platform, bi.Arch)
}

// GetVersion returns the release, or dev-<commit> for untagged builds.
func GetVersion() string {
	bi := GetBuildInfo()
	if bi.Version == "dev" && bi.GitCommit != "unknown" {
		return "dev-" + shortCommit(bi.GitCommit)
	}
	return bi.Version
}

// Print writes the build details one field per line.
func Print(w io.Writer) {
	bi := GetBuildInfo()
	fmt.Fprintf(w, "%s - cycle-accurate NES emulator\n", name)
	fmt.Fprintf(w, "Version:    %s\n", bi.Version)
	fmt.Fprintf(w, "Commit:     %s\n", bi.GitCommit)
	fmt.Fprintf(w, "Built:      %s\n", bi.BuildTime)
	fmt.Fprintf(w, "Go:         %s\n", bi.GoVersion)
	fmt.Fprintf(w, "Platform:   %s/%s\n", bi.Platform, bi.Arch)
}
