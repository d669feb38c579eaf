// Replex - Plex Discovery Hub Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/replex

package models

import "strings"

// Platform is the client operating system reported in X-Plex-Platform.
type Platform int

const (
	PlatformGeneric Platform = iota
	PlatformAndroid
	PlatformIOS
	PlatformTvOS
	PlatformRoku
	PlatformWeb
	PlatformWindows
	PlatformLinux
	PlatformMacOS
)

var platformNames = map[Platform]string{
	PlatformGeneric: "Generic",
	PlatformAndroid: "Android",
	PlatformIOS:     "iOS",
	PlatformTvOS:    "tvOS",
	PlatformRoku:    "Roku",
	PlatformWeb:     "Web",
	PlatformWindows: "Windows",
	PlatformLinux:   "Linux",
	PlatformMacOS:   "macOS",
}

// ParsePlatform matches s case-insensitively. Unknown values are Generic.
func ParsePlatform(s string) Platform {
	s = strings.TrimSpace(s)
	for p, name := range platformNames {
		if strings.EqualFold(s, name) {
			return p
		}
	}
	return PlatformGeneric
}

// String returns the canonical platform name.
func (p Platform) String() string {
	if name, ok := platformNames[p]; ok {
		return name
	}
	return platformNames[PlatformGeneric]
}
