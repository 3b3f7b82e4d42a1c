// Package main provides the CLI entry point for exectimer.
package main

import (
	"os"
	"runtime/debug"

	"github.com/alexander-akhmetov/exectimer/internal/cli"
	"github.com/alexander-akhmetov/exectimer/timer"
)

// Version information set via ldflags at build time.
var (
	version string
	commit  string
	date    string
)

func main() {
	info, _ := debug.ReadBuildInfo()
	cli.SetVersionInfo(resolveVersion(version, commit, date, info))
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveVersion fills whatever ldflags left empty from the build info.
// A go-installed binary reports its module version; a local build falls
// back to the library version plus the VCS stamp.
func resolveVersion(v, c, d string, info *debug.BuildInfo) (string, string, string) {
	rev, stamp := "unknown", "unknown"
	if info != nil {
		if v == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			v = info.Main.Version
		}
		rev, stamp = vcsStamp(info.Settings)
	}
	if v == "" {
		v = timer.Version
	}
	if c == "" {
		c = rev
	}
	if d == "" {
		d = stamp
	}
	return v, c, d
}

func vcsStamp(settings []debug.BuildSetting) (revision, date string) {
	revision, date = "unknown", "unknown"
	dirty := false
	for _, s := range settings {
		switch s.Key {
		case "vcs.revision":
			if len(s.Value) >= 7 {
				revision = s.Value[:7]
			}
		case "vcs.time":
			if s.Value != "" {
				date = s.Value
			}
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}
	if dirty && revision != "unknown" {
		revision += "-dirty"
	}
	return revision, date
}
