// Copyright (c) 2026 Gametrack. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/gametrack/internal/platform/sec"
)

func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.Len(t, first, 64)
	assert.NotEqual(t, first, second)
}

func TestHashToken(t *testing.T) {
	digest := sec.HashToken("cafe0123456789")

	// SHA-256 hex digest, stable across calls, never the raw token.
	assert.Len(t, digest, 64)
	assert.Equal(t, digest, sec.HashToken("cafe0123456789"))
	assert.NotEqual(t, digest, sec.HashToken("other"))
	assert.NotContains(t, digest, "cafe0123456789")
}
