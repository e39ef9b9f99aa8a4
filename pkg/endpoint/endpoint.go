// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package endpoint normalizes request paths for use in API error payloads.
package endpoint

import "strings"

// apiPrefix is the versioned mount point stripped from endpoint names.
const apiPrefix = "/api/v1"

// Trim strips the versioned API prefix and any trailing slash from a path.
//
// # Examples
//
//	Trim("/api/v1/user_games/") // "/user_games"
//	Trim("/api/v1/")            // "/"
//	Trim("/")                   // "/"
func Trim(path string) string {
	trimmed := strings.Replace(path, apiPrefix, "", 1)
	if trimmed == "/" {
		return trimmed
	}
	return strings.TrimSuffix(trimmed, "/")
}
