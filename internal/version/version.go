// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package version provides build-time version information.
package version

// Build-time values injected via ldflags.
var (
	// Version is the semantic version from git tags (e.g., "v1.2.3").
	Version = "dev"
	// GitCommit is the short git commit hash.
	GitCommit = "unknown"
	// BuildTime is the build timestamp in RFC3339 format.
	BuildTime = "unknown"
)
