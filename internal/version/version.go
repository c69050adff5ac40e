// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version exposes the build metadata stamped into the rcms
// binary at link time.
package version

// Info carries the ldflags-injected values behind the -version flag
// and the startup log.
type Info struct {
	Version   string // release tag, "dev" for local builds
	GitCommit string // short commit hash
	BuildTime string // RFC3339 build timestamp
}
