package aob

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatch(t *testing.T) {
	haystack := []byte{0x00, 0x48, 0x8B, 0x05, 0x90}
	m := newMatch(1, 4, haystack)

	assert.Equal(t, 1, m.Start())
	assert.Equal(t, 4, m.End())
	assert.Equal(t, 3, m.Len())
	assert.Equal(t, []byte{0x48, 0x8B, 0x05}, m.Bytes())
	assert.Equal(t, "48 8B 05", m.String())

	assert.False(t, m.Contains(0))
	assert.True(t, m.Contains(1))
	assert.True(t, m.Contains(3))
	assert.False(t, m.Contains(4), "end is exclusive")
}

func TestMatchBytesIsView(t *testing.T) {
	haystack := []byte{0x11, 0x22, 0x33}
	m := newMatch(0, 2, haystack)

	haystack[1] = 0xEE
	assert.Equal(t, byte(0xEE), m.Bytes()[1])
}

func TestMatchZeroValue(t *testing.T) {
	var m Match
	assert.Empty(t, m.Bytes())
	assert.Equal(t, "", m.String())
	assert.Zero(t, m.Len())

	bad := newMatch(2, 9, []byte{1, 2, 3})
	assert.Nil(t, bad.Bytes())
}
