/*
Copyright (C) 2026 Friends Incode

SPDX-License-Identifier: AGPL-3.0-or-later
*/

// Package version reports the build version of schedviz.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is set at build time via ldflags:
//
//	-X github.com/friendsincode/schedviz/internal/version.Version=X.Y.Z
var Version = "0.1.0"

// String returns the version line printed by the version command.
func String() string {
	return fmt.Sprintf("schedviz %s (%s, %s/%s)", Version, revision(), runtime.GOOS, runtime.GOARCH)
}

// revision returns the short VCS revision embedded by the Go toolchain, if any.
func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && s.Value != "" {
			if len(s.Value) > 12 {
				return s.Value[:12]
			}
			return s.Value
		}
	}
	return "devel"
}
