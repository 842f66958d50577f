package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "abc", TruncateRunes("abc", 5))
	assert.Equal(t, "abc", TruncateRunes("abcdef", 3))
	// multi-byte runes count as one
	assert.Equal(t, "你好", TruncateRunes("你好世界", 2))
	assert.Equal(t, "", TruncateRunes("", 3))
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 3.72, RoundTo(3.7184, 2))
	assert.Equal(t, 6.0, RoundTo(5.988, 1))
	assert.Equal(t, -2.5, RoundTo(-2.499, 1))
	assert.Equal(t, 4.0, RoundTo(4.0, 0))
}

func TestIsBlank(t *testing.T) {
	assert.True(t, IsBlank(""))
	assert.True(t, IsBlank("   \t\n"))
	assert.False(t, IsBlank(" x "))
}

func TestContainsString(t *testing.T) {
	assert.True(t, ContainsString([]string{"a", "b"}, "b"))
	assert.False(t, ContainsString([]string{"a", "b"}, "c"))
	assert.False(t, ContainsString(nil, "a"))
}
