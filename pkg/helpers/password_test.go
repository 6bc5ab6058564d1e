package helpers

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordSaltsPerCall(t *testing.T) {
	h1, err := HashPassword("secret123")
	require.NoError(t, err)
	h2, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2, "each hash must use a fresh salt")
	assert.True(t, CompareHashAndPassword(h1, "secret123"))
	assert.True(t, CompareHashAndPassword(h2, "secret123"))
}

func TestCompareHashAndPasswordRejectsWrongPassword(t *testing.T) {
	h, err := HashPassword("secret123")
	require.NoError(t, err)

	assert.False(t, CompareHashAndPassword(h, "secret124"))
	assert.False(t, CompareHashAndPassword(h, ""))
	assert.False(t, CompareHashAndPassword("not-a-hash", "secret123"))
}

func TestHashPasswordRejectsOverlongInput(t *testing.T) {
	_, err := HashPassword(strings.Repeat("p", 73))
	assert.Error(t, err)
}
