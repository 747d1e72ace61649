package conf

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultSettings() *Settings {
	s := &Settings{}
	s.MetAPI.BaseURL = "https://collectionapi.metmuseum.org/public/collection/v1"
	s.Cache.Store = "memory"
	s.Cache.SearchTTL = 24 * time.Hour
	s.Cache.ObjectTTL = 7 * 24 * time.Hour
	s.Timeline.BatchSize = 30
	s.Timeline.PoolFactor = 40
	return s
}

func TestValidateSettings(t *testing.T) {
	require.NoError(t, ValidateSettings(defaultSettings()))
}

func TestValidateSettingsRejectsEmptyBaseURL(t *testing.T) {
	s := defaultSettings()
	s.MetAPI.BaseURL = ""

	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "metapi.baseurl")
}

func TestValidateSettingsRejectsUnknownStore(t *testing.T) {
	s := defaultSettings()
	s.Cache.Store = "tape"

	err := ValidateSettings(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cache.store")
}

func TestValidateSettingsRejectsBadTimelineTuning(t *testing.T) {
	s := defaultSettings()
	s.Timeline.BatchSize = 0
	require.Error(t, ValidateSettings(s))

	s = defaultSettings()
	s.Timeline.PoolFactor = -1
	require.Error(t, ValidateSettings(s))
}

func TestLoadUsesDefaults(t *testing.T) {
	// Load falls back to defaults when no config file is present.
	settings, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://collectionapi.metmuseum.org/public/collection/v1", settings.MetAPI.BaseURL)
	assert.Equal(t, "memory", settings.Cache.Store)
	assert.Equal(t, 24*time.Hour, settings.Cache.SearchTTL)
	assert.Equal(t, 7*24*time.Hour, settings.Cache.ObjectTTL)
	assert.Equal(t, 30, settings.Timeline.BatchSize)
	assert.Equal(t, 50*time.Millisecond, settings.Timeline.BatchPause)
	assert.Equal(t, 40, settings.Timeline.PoolFactor)
	assert.Equal(t, 50, settings.Timeline.PerQueryCap)
	assert.Equal(t, 8080, settings.Server.Port)

	assert.Same(t, settings, GetSettings())
}
