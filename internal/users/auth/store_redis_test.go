// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/gametrack/internal/platform/constants"
	"github.com/taibuivan/gametrack/internal/platform/sec"
)

func TestTokenKey_StoresDigestNotRawToken(t *testing.T) {
	token := "cafe0123456789"

	key := tokenKey(token)

	assert.True(t, strings.HasPrefix(key, constants.RedisPrefixResetToken))
	assert.NotContains(t, key, token)
	assert.Equal(t, constants.RedisPrefixResetToken+sec.HashToken(token), key)
}

func TestTokenKey_Deterministic(t *testing.T) {
	// Lookups on /reset-password must derive the same key Set wrote.
	assert.Equal(t, tokenKey("alpha"), tokenKey("alpha"))
	assert.NotEqual(t, tokenKey("alpha"), tokenKey("beta"))
}
