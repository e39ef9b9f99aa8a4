// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package endpoint_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/gametrack/pkg/endpoint"
)

/*
TestTrim verifies prefix and trailing-slash stripping for error payload paths.
*/
func TestTrim(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{"root", "/", "/"},
		{"prefixed_root", "/api/v1/", "/"},
		{"collection", "/api/v1/user_games/", "/user_games"},
		{"resource_with_id", "/api/v1/user_game/1/", "/user_game/1"},
		{"no_trailing_slash", "/api/v1/user_games", "/user_games"},
		{"empty", "", ""},
		{"unprefixed", "/user_games/", "/user_games"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, endpoint.Trim(tt.path))
		})
	}
}
