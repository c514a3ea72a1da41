package pwhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndValidate(t *testing.T) {
	ph, err := New(16, 10000)
	require.NoError(t, err)

	hash, err := ph.HashPassword("hunter22")
	require.NoError(t, err)

	assert.NoError(t, ph.Validate("hunter22", hash))
	assert.Error(t, ph.Validate("hunter23", hash))
}

func TestHashesAreSalted(t *testing.T) {
	ph, err := New(16, 10000)
	require.NoError(t, err)

	h1, err := ph.HashPassword("same password")
	require.NoError(t, err)
	h2, err := ph.HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.NoError(t, ph.Validate("same password", h1))
	assert.NoError(t, ph.Validate("same password", h2))
}

func TestMalformedStoredHash(t *testing.T) {
	ph, err := New(16, 10000)
	require.NoError(t, err)

	assert.Error(t, ph.Validate("x", "no-separator"))
	assert.Error(t, ph.Validate("x", "!!bad$base64"))
}

func TestNewRejectsWeakParams(t *testing.T) {
	_, err := New(4, 10000)
	assert.Error(t, err)
	_, err = New(16, 10)
	assert.Error(t, err)
}
