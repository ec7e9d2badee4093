package model

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultAppConfig_MatchesDefaultSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	defaults := DefaultSettings()

	assert.Equal(t, defaults.MaxSize, cfg.DefaultMaxSize)
	assert.Equal(t, defaults.Padding, cfg.DefaultPadding)
	assert.Equal(t, defaults.Trim, cfg.DefaultTrim)
	assert.Equal(t, defaults.PowerOfTwo, cfg.DefaultPowerOfTwo)
	assert.NotNil(t, cfg.RecentAtlases)
}

func TestAppConfig_ApplyToSettings(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.DefaultMaxSize = 2048
	cfg.DefaultPadding = 4
	cfg.DefaultTrim = false
	cfg.DefaultPowerOfTwo = true

	s := DefaultSettings()
	cfg.ApplyToSettings(&s)

	assert.Equal(t, 2048, s.MaxSize)
	assert.Equal(t, 4, s.Padding)
	assert.False(t, s.Trim)
	assert.True(t, s.PowerOfTwo)
}

func TestAddRecentAtlas_MovesExistingToFront(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.AddRecentAtlas("a.json")
	cfg.AddRecentAtlas("b.json")
	cfg.AddRecentAtlas("a.json")

	assert.Equal(t, []string{"a.json", "b.json"}, cfg.RecentAtlases)
}

func TestAddRecentAtlas_CapsListLength(t *testing.T) {
	cfg := DefaultAppConfig()
	for i := 0; i < MaxRecentAtlases+5; i++ {
		cfg.AddRecentAtlas(fmt.Sprintf("atlas-%d.json", i))
	}

	assert.Len(t, cfg.RecentAtlases, MaxRecentAtlases)
	assert.Equal(t, fmt.Sprintf("atlas-%d.json", MaxRecentAtlases+4), cfg.RecentAtlases[0])
}
