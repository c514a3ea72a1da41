package announce

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndCurrent(t *testing.T) {
	b := New()
	assert.Nil(t, b.Current())

	b.Set("maintenance tonight", "info", time.Minute)
	n := b.Current()
	require.NotNil(t, n)
	assert.Equal(t, "maintenance tonight", n.Message)
	assert.Equal(t, "info", n.Kind)
}

func TestLastWriteWins(t *testing.T) {
	b := New()
	b.Set("first", "info", 20*time.Millisecond)
	b.Set("second", "info", time.Minute)

	// the first notice's timer firing must not clear the second notice
	time.Sleep(60 * time.Millisecond)
	n := b.Current()
	require.NotNil(t, n)
	assert.Equal(t, "second", n.Message)
}

func TestExpiry(t *testing.T) {
	b := New()
	b.Set("short lived", "info", 20*time.Millisecond)
	time.Sleep(60 * time.Millisecond)
	assert.Nil(t, b.Current())
}

func TestDismiss(t *testing.T) {
	b := New()
	b.Set("to be dismissed", "warning", time.Minute)
	b.Dismiss()
	assert.Nil(t, b.Current())
}

func TestDefaultTTL(t *testing.T) {
	b := New()
	n := b.Set("default", "info", 0)
	assert.WithinDuration(t, time.Now().Add(DefaultTTL), n.ExpiresAt, 100*time.Millisecond)
}
